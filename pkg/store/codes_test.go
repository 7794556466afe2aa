package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "openirblaster.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := db.Bootstrap(ctx, "openirblaster-test123", ""); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	return db
}

func TestAddAndGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	added, err := codes.Add(ctx, "Test Code", 38000, []int{9000, -4500, 560, -560}, []string{"test"}, "a note")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.ID != "test_code" {
		t.Errorf("id = %q, want test_code", added.ID)
	}
	if !added.UpdatedAt.Equal(added.CreatedAt) {
		t.Error("updated_at should equal created_at on insert")
	}

	got, err := codes.Get(ctx, "test_code")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Test Code" || got.CarrierHz != 38000 || got.Notes != "a note" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Pulses) != 4 || got.Pulses[0] != 9000 || got.Pulses[1] != -4500 {
		t.Errorf("pulses = %v", got.Pulses)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "test" {
		t.Errorf("tags = %v", got.Tags)
	}
	if !got.CreatedAt.Equal(added.CreatedAt) || !got.UpdatedAt.Equal(added.UpdatedAt) {
		t.Error("timestamps did not survive the round trip")
	}
}

func TestIDCollisionResolution(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	want := []string{"tv_power", "tv_power_2", "tv_power_3"}
	pulses := [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	for i, id := range want {
		code, err := codes.Add(ctx, "TV Power", 38000, pulses[i], nil, "")
		if err != nil {
			t.Fatalf("Add #%d failed: %v", i+1, err)
		}
		if code.ID != id {
			t.Errorf("Add #%d id = %q, want %q", i+1, code.ID, id)
		}
	}
}

func TestFallbackSlug(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	code, err := db.Codes().Add(ctx, "###", 38000, []int{1}, nil, "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if code.ID != "code" {
		t.Errorf("id = %q, want fallback slug", code.ID)
	}
}

func TestAddValidatesInput(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	if _, err := codes.Add(ctx, "   ", 38000, []int{1}, nil, ""); err == nil {
		t.Error("blank name should be rejected")
	}
	if _, err := codes.Add(ctx, "x", 0, []int{1}, nil, ""); err == nil {
		t.Error("non-positive carrier should be rejected")
	}
	if _, err := codes.Add(ctx, "x", 38000, nil, nil, ""); err == nil {
		t.Error("empty pulses should be rejected")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	added, err := codes.Add(ctx, "Original", 38000, []int{1, 2, 3}, nil, "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	newName := "Updated Name"
	updated, err := codes.Update(ctx, added.ID, CodePatch{Name: &newName})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Updated Name" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.CarrierHz != 38000 {
		t.Error("carrier should be unchanged by a name-only patch")
	}
	if updated.ID != added.ID {
		t.Error("id must be immutable")
	}
	if updated.UpdatedAt.Before(added.UpdatedAt) {
		t.Error("updated_at must be refreshed")
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := openTestDB(t)
	newName := "x"
	_, err := db.Codes().Update(context.Background(), "nope", CodePatch{Name: &newName})
	if !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("err = %v, want ErrCodeNotFound", err)
	}
}

func TestRenameToCollidingNameRejected(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	if _, err := codes.Add(ctx, "TV Power", 38000, []int{1}, nil, ""); err != nil {
		t.Fatal(err)
	}
	other, err := codes.Add(ctx, "TV Mute", 38000, []int{2}, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	clash := "tv power" // case-insensitive collision
	_, err = codes.Update(ctx, other.ID, CodePatch{Name: &clash})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}

	// Renaming to its own name is not a collision.
	same := "TV Mute"
	if _, err := codes.Update(ctx, other.ID, CodePatch{Name: &same}); err != nil {
		t.Errorf("self-rename failed: %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	added, err := codes.Add(ctx, "Doomed", 38000, []int{1}, nil, "")
	if err != nil {
		t.Fatal(err)
	}

	removed, err := codes.Delete(ctx, added.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", removed, err)
	}

	removed, err = codes.Delete(ctx, added.ID)
	if err != nil {
		t.Fatalf("second Delete errored: %v", err)
	}
	if removed {
		t.Error("deleting an already-deleted id should report false")
	}

	list, err := codes.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("collection should be empty, got %d codes", len(list))
	}
}

func TestNameExistsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	codes := db.Codes()

	if _, err := codes.Add(ctx, "TV Power", 38000, []int{1}, nil, ""); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"TV Power", "tv power", "  TV POWER  "} {
		exists, err := codes.NameExists(ctx, name)
		if err != nil {
			t.Fatal(err)
		}
		if !exists {
			t.Errorf("NameExists(%q) = false, want true", name)
		}
	}

	exists, err := codes.NameExists(ctx, "TV Mute")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("NameExists for an unknown name should be false")
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openirblaster.db")
	ctx := context.Background()

	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := db.Bootstrap(ctx, "openirblaster-abc", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Codes().Add(ctx, "TV Power", 38000, []int{9000, -4500}, nil, ""); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Migrate(ctx); err != nil {
		t.Fatal(err)
	}

	got, err := db.Codes().Get(ctx, "tv_power")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got.CarrierHz != 38000 || len(got.Pulses) != 2 {
		t.Errorf("persisted code mismatch: %+v", got)
	}
}

func TestExportSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.Codes().Add(ctx, "TV Power", 38000, []int{1, 2}, nil, ""); err != nil {
		t.Fatal(err)
	}

	snap, err := db.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("version = %d, want 1", snap.Version)
	}
	if snap.Device == nil || snap.Device.DeviceID != "openirblaster-test123" {
		t.Errorf("device = %+v", snap.Device)
	}
	if len(snap.Codes) != 1 {
		t.Errorf("codes = %d, want 1", len(snap.Codes))
	}
}

func TestLastLearnedSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	dev, err := db.GetDevice(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dev.LastLearnedName != nil || dev.LastLearnedAt != nil {
		t.Error("fresh device record should carry no last-learned snapshot")
	}

	at := dev.UpdatedAt
	if err := db.SetLastLearned(ctx, "TV Power", at, 68); err != nil {
		t.Fatal(err)
	}

	dev, err = db.GetDevice(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dev.LastLearnedName == nil || *dev.LastLearnedName != "TV Power" {
		t.Errorf("last_learned_name = %v", dev.LastLearnedName)
	}
	if dev.LastLearnedPulseLen == nil || *dev.LastLearnedPulseLen != 68 {
		t.Errorf("last_learned_pulse_count = %v", dev.LastLearnedPulseLen)
	}
}
