package store

import (
	"context"
	"fmt"
)

// Snapshot is the versioned export of the full store state, mirroring the
// on-disk dictionary format of the original storage files.
type Snapshot struct {
	Version int           `json:"version"`
	Device  *Device       `json:"device"`
	Codes   []*StoredCode `json:"codes"`
}

// Export renders the complete store as a versioned snapshot.
func (db *DB) Export(ctx context.Context) (*Snapshot, error) {
	device, err := db.GetDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device record: %w", err)
	}

	codes, err := db.Codes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	if codes == nil {
		codes = []*StoredCode{}
	}

	return &Snapshot{
		Version: currentSchemaVersion,
		Device:  device,
		Codes:   codes,
	}, nil
}
