package schema

import (
	"testing"
)

func TestValidateTransmit_ValidPayload(t *testing.T) {
	v := NewValidator()

	err := v.Validate(TransmitSchema(), map[string]any{
		"carrier_hz": float64(38000),
		"code":       []any{float64(9000), float64(-4500), float64(560)},
	})
	if err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidateTransmit_ZeroCarrier(t *testing.T) {
	v := NewValidator()

	err := v.Validate(TransmitSchema(), map[string]any{
		"carrier_hz": float64(0),
		"code":       []any{float64(100)},
	})
	if err == nil {
		t.Error("expected validation error for zero carrier frequency")
	}
}

func TestValidateTransmit_EmptyCode(t *testing.T) {
	v := NewValidator()

	err := v.Validate(TransmitSchema(), map[string]any{
		"carrier_hz": float64(38000),
		"code":       []any{},
	})
	if err == nil {
		t.Error("expected validation error for empty pulse array")
	}
}

func TestValidateTransmit_MissingCode(t *testing.T) {
	v := NewValidator()

	err := v.Validate(TransmitSchema(), map[string]any{
		"carrier_hz": float64(38000),
	})
	if err == nil {
		t.Error("expected validation error for missing code")
	}
}

func TestValidateTransmit_UnknownProperty(t *testing.T) {
	v := NewValidator()

	err := v.Validate(TransmitSchema(), map[string]any{
		"carrier_hz": float64(38000),
		"code":       []any{float64(100)},
		"repeat":     float64(3),
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
}
