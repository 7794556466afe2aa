package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrDeviceNotFound indicates the device record has not been bootstrapped.
var ErrDeviceNotFound = errors.New("device record not found")

// Device is the singleton record describing the owning transceiver, plus a
// small snapshot of the most recently learned code. The snapshot lives here,
// not in process memory, so it survives restarts.
type Device struct {
	DeviceID            string     `json:"device_id"`
	Name                string     `json:"name"`
	LastLearnedName     *string    `json:"last_learned_name,omitempty"`
	LastLearnedAt       *time.Time `json:"last_learned_at,omitempty"`
	LastLearnedPulseLen *int       `json:"last_learned_pulse_count,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// GetDevice returns the singleton device record.
func (db *DB) GetDevice(ctx context.Context) (*Device, error) {
	d := &Device{}
	var lastName sql.NullString
	var lastAt sql.NullString
	var lastLen sql.NullInt64
	var updatedAt string
	err := db.QueryRowContext(ctx, `
		SELECT device_id, name, last_learned_name, last_learned_at, last_learned_pulse_count, updated_at
		FROM device WHERE id = 1
	`).Scan(&d.DeviceID, &d.Name, &lastName, &lastAt, &lastLen, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}

	if lastName.Valid {
		d.LastLearnedName = &lastName.String
	}
	if lastAt.Valid {
		if t, err := time.Parse(time.RFC3339, lastAt.String); err == nil {
			d.LastLearnedAt = &t
		}
	}
	if lastLen.Valid {
		n := int(lastLen.Int64)
		d.LastLearnedPulseLen = &n
	}
	d.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return d, nil
}

// UpdateDeviceInfo refreshes the physical device identity. An empty name
// leaves the display name untouched.
func (db *DB) UpdateDeviceInfo(ctx context.Context, deviceID, name string) error {
	if name != "" {
		_, err := db.ExecContext(ctx, `
			UPDATE device SET device_id = ?, name = ?, updated_at = datetime('now') WHERE id = 1
		`, deviceID, name)
		return err
	}
	_, err := db.ExecContext(ctx, `
		UPDATE device SET device_id = ?, updated_at = datetime('now') WHERE id = 1
	`, deviceID)
	return err
}

// SetLastLearned persists the last-learned snapshot shown to consumers.
// Name may be empty while a capture is pending a save.
func (db *DB) SetLastLearned(ctx context.Context, name string, at time.Time, pulseCount int) error {
	var nameVal any
	if name != "" {
		nameVal = name
	}
	_, err := db.ExecContext(ctx, `
		UPDATE device
		SET last_learned_name = ?, last_learned_at = ?, last_learned_pulse_count = ?, updated_at = datetime('now')
		WHERE id = 1
	`, nameVal, at.UTC().Format(time.RFC3339), pulseCount)
	return err
}
