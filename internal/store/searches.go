package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no saved search exists for an id.
var ErrNotFound = errors.New("saved search not found")

// SavedSearch is one persisted query explanation.
type SavedSearch struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Query             string `json:"query"`
	DeterministicText string `json:"deterministic_text"`
	NarrativeText     string `json:"narrative_text"`

	// ASTJSON is the canonical JSON encoding of the serialized tree.
	ASTJSON string `json:"ast_json"`

	// CreatedAt is a unix timestamp in seconds.
	CreatedAt int64 `json:"created_at"`
}

// Save inserts a saved search. A missing ID is assigned a fresh UUID and
// a missing CreatedAt the current time; both are returned on the struct.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-saving the same
// id is silently ignored.
func (s *Store) Save(ctx context.Context, search *SavedSearch) error {
	if search.ID == "" {
		search.ID = uuid.New().String()
	}
	if search.CreatedAt == 0 {
		search.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches
		(id, name, query, deterministic_text, narrative_text, ast_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		search.ID,
		search.Name,
		search.Query,
		search.DeterministicText,
		search.NarrativeText,
		search.ASTJSON,
		search.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save search: %w", err)
	}

	return nil
}

// Get returns one saved search by id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*SavedSearch, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, query, deterministic_text, narrative_text, ast_json, created_at
		FROM searches
		WHERE id = ?
	`, id)

	search, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get search: %w", err)
	}
	return search, nil
}

// List returns all saved searches with deterministic ordering:
// ORDER BY created_at ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) List(ctx context.Context) ([]*SavedSearch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, query, deterministic_text, narrative_text, ast_json, created_at
		FROM searches
		ORDER BY created_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	searches := []*SavedSearch{}
	for rows.Next() {
		search, err := scanSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("list searches: %w", err)
		}
		searches = append(searches, search)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}

	return searches, nil
}

// Delete removes one saved search by id. Deleting a missing id returns
// ErrNotFound so callers can report it.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete search: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(row scanner) (*SavedSearch, error) {
	var search SavedSearch
	err := row.Scan(
		&search.ID,
		&search.Name,
		&search.Query,
		&search.DeterministicText,
		&search.NarrativeText,
		&search.ASTJSON,
		&search.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &search, nil
}
