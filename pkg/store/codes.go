package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrCodeNotFound indicates the requested code id is absent
	ErrCodeNotFound = errors.New("code not found")

	// ErrDuplicateName indicates a rename collides with another code's name
	ErrDuplicateName = errors.New("code name already in use")
)

// StoredCode is a persisted IR code. The id is a slug generated once at
// creation and immutable thereafter.
type StoredCode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CarrierHz int       `json:"carrier_hz"`
	Pulses    []int     `json:"pulses"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CodePatch carries the fields of a partial update; nil fields are left
// untouched.
type CodePatch struct {
	Name      *string
	CarrierHz *int
	Pulses    []int
	Tags      []string
	Notes     *string
}

// CodeStore provides CRUD operations over stored IR codes. Every mutating
// operation commits durably before returning.
//
// Duplicate names are the caller's concern at creation time: Add resolves id
// collisions by suffixing but accepts any name, per the save-pending flow's
// own pre-check. Renames, by contrast, reject case-insensitive collisions.
type CodeStore interface {
	Add(ctx context.Context, name string, carrierHz int, pulses []int, tags []string, notes string) (*StoredCode, error)
	Update(ctx context.Context, id string, patch CodePatch) (*StoredCode, error)
	Delete(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (*StoredCode, error)
	List(ctx context.Context) ([]*StoredCode, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// Codes returns a CodeStore for this database.
func (db *DB) Codes() CodeStore {
	return &codeStore{db: db}
}

type codeStore struct {
	db *DB
}

func (s *codeStore) Add(ctx context.Context, name string, carrierHz int, pulses []int, tags []string, notes string) (*StoredCode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("code name must not be empty")
	}
	if carrierHz <= 0 {
		return nil, errors.New("carrier frequency must be positive")
	}
	if len(pulses) == 0 {
		return nil, errors.New("pulses must not be empty")
	}
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC().Truncate(time.Second)
	code := &StoredCode{
		Name:      name,
		CarrierHz: carrierHz,
		Pulses:    pulses,
		Tags:      tags,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	pulsesJSON, tagsJSON, err := encodeFields(pulses, tags)
	if err != nil {
		return nil, err
	}

	// The slug check and the insert run in one transaction so two adds with
	// the same name cannot both claim a slug.
	err = s.db.Tx(ctx, func(tx *sql.Tx) error {
		id, err := uniqueSlug(ctx, tx, name)
		if err != nil {
			return err
		}
		code.ID = id

		_, err = tx.ExecContext(ctx, `
			INSERT INTO codes (id, name, carrier_hz, pulses, tags, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, code.ID, code.Name, code.CarrierHz, pulsesJSON, tagsJSON, code.Notes,
			code.CreatedAt.Format(time.RFC3339), code.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to insert code: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return code, nil
}

// uniqueSlug slugifies name and appends _2, _3, ... until the id is free.
func uniqueSlug(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	base := Slugify(name)
	slug := base
	for counter := 2; ; counter++ {
		var count int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM codes WHERE id = ?`, slug).Scan(&count)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s_%d", base, counter)
	}
}

func (s *codeStore) Update(ctx context.Context, id string, patch CodePatch) (*StoredCode, error) {
	var updated *StoredCode

	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		code, err := getCodeTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			newName := strings.TrimSpace(*patch.Name)
			if newName == "" {
				return errors.New("code name must not be empty")
			}
			taken, err := nameTakenTx(ctx, tx, newName, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateName
			}
			code.Name = newName
		}
		if patch.CarrierHz != nil {
			if *patch.CarrierHz <= 0 {
				return errors.New("carrier frequency must be positive")
			}
			code.CarrierHz = *patch.CarrierHz
		}
		if patch.Pulses != nil {
			if len(patch.Pulses) == 0 {
				return errors.New("pulses must not be empty")
			}
			code.Pulses = patch.Pulses
		}
		if patch.Tags != nil {
			code.Tags = patch.Tags
		}
		if patch.Notes != nil {
			code.Notes = *patch.Notes
		}

		code.UpdatedAt = time.Now().UTC().Truncate(time.Second)

		pulsesJSON, tagsJSON, err := encodeFields(code.Pulses, code.Tags)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE codes SET name = ?, carrier_hz = ?, pulses = ?, tags = ?, notes = ?, updated_at = ?
			WHERE id = ?
		`, code.Name, code.CarrierHz, pulsesJSON, tagsJSON, code.Notes,
			code.UpdatedAt.Format(time.RFC3339), id)
		if err != nil {
			return fmt.Errorf("failed to update code: %w", err)
		}

		updated = code
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *codeStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM codes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (s *codeStore) Get(ctx context.Context, id string) (*StoredCode, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, carrier_hz, pulses, tags, notes, created_at, updated_at
		FROM codes WHERE id = ?
	`, id)
	return scanCode(row)
}

func (s *codeStore) List(ctx context.Context) ([]*StoredCode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, carrier_hz, pulses, tags, notes, created_at, updated_at
		FROM codes ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var codes []*StoredCode
	for rows.Next() {
		code, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *codeStore) NameExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM codes WHERE lower(trim(name)) = ?
	`, strings.ToLower(strings.TrimSpace(name))).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func getCodeTx(ctx context.Context, tx *sql.Tx, id string) (*StoredCode, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT id, name, carrier_hz, pulses, tags, notes, created_at, updated_at
		FROM codes WHERE id = ?
	`, id)
	return scanCode(row)
}

func nameTakenTx(ctx context.Context, tx *sql.Tx, name, excludeID string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM codes WHERE lower(trim(name)) = ? AND id != ?
	`, strings.ToLower(strings.TrimSpace(name)), excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCode(row rowScanner) (*StoredCode, error) {
	code := &StoredCode{}
	var pulsesJSON, tagsJSON, createdAt, updatedAt string
	err := row.Scan(&code.ID, &code.Name, &code.CarrierHz, &pulsesJSON, &tagsJSON,
		&code.Notes, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(pulsesJSON), &code.Pulses); err != nil {
		return nil, fmt.Errorf("failed to decode pulses for %s: %w", code.ID, err)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &code.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for %s: %w", code.ID, err)
	}
	code.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	code.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return code, nil
}

func encodeFields(pulses []int, tags []string) (string, string, error) {
	pulsesJSON, err := json.Marshal(pulses)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode pulses: %w", err)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(pulsesJSON), string(tagsJSON), nil
}
