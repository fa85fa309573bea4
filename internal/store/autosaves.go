package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/project"
)

// WriteAutosave stores a, replacing any earlier record for the same slot
// and session. Implements project.Sink.
func (s *Store) WriteAutosave(ctx context.Context, a project.Autosave) error {
	if a.Slot == "" || a.Session == "" {
		return failure.Malformed("autosave needs a slot and a session", nil)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO autosaves (slot, session, hash, data, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot, session) DO UPDATE SET
			hash = excluded.hash,
			data = excluded.data,
			saved_at = excluded.saved_at
	`,
		a.Slot,
		a.Session,
		a.Hash,
		string(a.Data),
		formatTime(a.SavedAt),
	)
	if err != nil {
		return failure.External("write autosave", err)
	}
	return nil
}

// ReadAutosave returns the record for slot and session.
func (s *Store) ReadAutosave(ctx context.Context, slot, session string) (project.Autosave, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slot, session, hash, data, saved_at
		FROM autosaves
		WHERE slot = ? AND session = ?
	`, slot, session)
	a, err := scanAutosave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Autosave{}, failure.NotFound("no autosave for session %s", session)
	}
	return a, err
}

// ReadLatestAutosave returns the most recent record in slot across all
// sessions. This backs "recover last session".
func (s *Store) ReadLatestAutosave(ctx context.Context, slot string) (project.Autosave, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slot, session, hash, data, saved_at
		FROM autosaves
		WHERE slot = ?
		ORDER BY saved_at DESC, session COLLATE BINARY ASC
		LIMIT 1
	`, slot)
	a, err := scanAutosave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Autosave{}, failure.NotFound("no autosave in slot %s", slot)
	}
	return a, err
}

// ListAutosaves returns every record in slot without its data, newest
// first.
//
// Returns empty slice (not nil) if the slot is empty.
func (s *Store) ListAutosaves(ctx context.Context, slot string) ([]project.Autosave, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, session, hash, '', saved_at
		FROM autosaves
		WHERE slot = ?
		ORDER BY saved_at DESC, session COLLATE BINARY ASC
	`, slot)
	if err != nil {
		return nil, failure.External("query autosaves", err)
	}
	defer rows.Close()

	records := []project.Autosave{}
	for rows.Next() {
		a, err := scanAutosave(rows)
		if err != nil {
			return nil, err
		}
		a.Data = nil
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, failure.External("iterate autosaves", err)
	}
	return records, nil
}

// DeleteAutosave removes the record for slot and session. Deleting a
// missing record is not an error.
func (s *Store) DeleteAutosave(ctx context.Context, slot, session string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM autosaves WHERE slot = ? AND session = ?`, slot, session)
	if err != nil {
		return failure.External("delete autosave", err)
	}
	return nil
}

func scanAutosave(row scanner) (project.Autosave, error) {
	var (
		a       project.Autosave
		data    string
		savedAt string
	)
	err := row.Scan(&a.Slot, &a.Session, &a.Hash, &data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Autosave{}, err
	}
	if err != nil {
		return project.Autosave{}, failure.External("scan autosave", err)
	}
	a.Data = []byte(data)
	if a.SavedAt, err = parseTime(savedAt); err != nil {
		return project.Autosave{}, failure.Malformed("autosave "+a.Session, err)
	}
	return a, nil
}
