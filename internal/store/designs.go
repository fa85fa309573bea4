package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/project"
)

// Design is a saved project record.
type Design struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Data        string    `json:"data"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DesignInput holds the caller-supplied fields of a new design.
type DesignInput struct {
	Name        string
	Description string
	Data        string
	Thumbnail   string
	IsPublic    bool
	Tags        []string
}

// DesignPatch is a partial update. Nil fields are left untouched.
type DesignPatch struct {
	Name        *string
	Description *string
	Data        *string
	Thumbnail   *string
	IsPublic    *bool
	Tags        *[]string
}

// CreateDesign stores a new design owned by userID.
func (s *Store) CreateDesign(ctx context.Context, userID string, in DesignInput) (Design, error) {
	if userID == "" {
		return Design{}, failure.Permission("sign in to save designs")
	}
	name, err := validName(in.Name)
	if err != nil {
		return Design{}, err
	}
	if err := validData(in.Data); err != nil {
		return Design{}, err
	}
	tags, err := marshalTags(in.Tags)
	if err != nil {
		return Design{}, err
	}

	id := s.newID()
	now := s.timestamp()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO designs
		(id, user_id, name, description, data, thumbnail, is_public, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		userID,
		name,
		project.NormalizeText(in.Description),
		in.Data,
		in.Thumbnail,
		boolInt(in.IsPublic),
		tags,
		now,
		now,
	)
	if err != nil {
		return Design{}, failure.External("create design", err)
	}
	return s.readDesign(ctx, s.db, id)
}

// GetDesign returns the design with id if userID owns it or it is public.
func (s *Store) GetDesign(ctx context.Context, userID, id string) (Design, error) {
	d, err := s.readDesign(ctx, s.db, id)
	if err != nil {
		return Design{}, err
	}
	if d.UserID != userID && !d.IsPublic {
		return Design{}, failure.Permission("design %s is private", id)
	}
	return d, nil
}

// UpdateDesign applies patch to a design owned by userID and bumps
// updated_at. Returns the updated design.
func (s *Store) UpdateDesign(ctx context.Context, userID, id string, patch DesignPatch) (Design, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Design{}, failure.External("update design: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	d, err := s.readDesign(ctx, tx, id)
	if err != nil {
		return Design{}, err
	}
	if d.UserID != userID {
		return Design{}, failure.Permission("design %s belongs to another user", id)
	}

	if patch.Name != nil {
		if d.Name, err = validName(*patch.Name); err != nil {
			return Design{}, err
		}
	}
	if patch.Description != nil {
		d.Description = project.NormalizeText(*patch.Description)
	}
	if patch.Data != nil {
		if err := validData(*patch.Data); err != nil {
			return Design{}, err
		}
		d.Data = *patch.Data
	}
	if patch.Thumbnail != nil {
		d.Thumbnail = *patch.Thumbnail
	}
	if patch.IsPublic != nil {
		d.IsPublic = *patch.IsPublic
	}
	if patch.Tags != nil {
		d.Tags = *patch.Tags
	}
	tags, err := marshalTags(d.Tags)
	if err != nil {
		return Design{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE designs
		SET name = ?, description = ?, data = ?, thumbnail = ?, is_public = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`,
		d.Name,
		d.Description,
		d.Data,
		d.Thumbnail,
		boolInt(d.IsPublic),
		tags,
		s.timestamp(),
		id,
	)
	if err != nil {
		return Design{}, failure.External("update design", err)
	}

	updated, err := s.readDesign(ctx, tx, id)
	if err != nil {
		return Design{}, err
	}
	if err := tx.Commit(); err != nil {
		return Design{}, failure.External("update design: commit", err)
	}
	return updated, nil
}

// DeleteDesign removes a design owned by userID.
func (s *Store) DeleteDesign(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return failure.External("delete design: begin tx", err)
	}
	defer tx.Rollback() // No-op if committed

	d, err := s.readDesign(ctx, tx, id)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return failure.Permission("design %s belongs to another user", id)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id); err != nil {
		return failure.External("delete design", err)
	}
	if err := tx.Commit(); err != nil {
		return failure.External("delete design: commit", err)
	}
	return nil
}

// DuplicateDesign copies a design readable by userID into a new private
// design owned by userID. An empty name becomes "<original> (copy)".
func (s *Store) DuplicateDesign(ctx context.Context, userID, id, name string) (Design, error) {
	src, err := s.GetDesign(ctx, userID, id)
	if err != nil {
		return Design{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = src.Name + " (copy)"
	}
	return s.CreateDesign(ctx, userID, DesignInput{
		Name:        name,
		Description: src.Description,
		Data:        src.Data,
		Thumbnail:   src.Thumbnail,
		Tags:        src.Tags,
	})
}

// ListDesigns returns designs owned by userID, most recently updated first.
//
// Returns empty slice (not nil) if the user has no designs.
func (s *Store) ListDesigns(ctx context.Context, userID string) ([]Design, error) {
	return s.queryDesigns(ctx, `
		SELECT id, user_id, name, description, data, thumbnail, is_public, tags, created_at, updated_at
		FROM designs
		WHERE user_id = ?
		ORDER BY updated_at DESC, id COLLATE BINARY ASC
	`, userID)
}

// ListPublic returns public designs from every user, most recently updated
// first. limit <= 0 means no limit.
func (s *Store) ListPublic(ctx context.Context, limit int) ([]Design, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryDesigns(ctx, `
		SELECT id, user_id, name, description, data, thumbnail, is_public, tags, created_at, updated_at
		FROM designs
		WHERE is_public = 1
		ORDER BY updated_at DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
}

func (s *Store) queryDesigns(ctx context.Context, query string, args ...any) ([]Design, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, failure.External("query designs", err)
	}
	defer rows.Close()

	designs := []Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, failure.External("iterate designs", err)
	}
	return designs, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) readDesign(ctx context.Context, q querier, id string) (Design, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, data, thumbnail, is_public, tags, created_at, updated_at
		FROM designs
		WHERE id = ?
	`, id)
	d, err := scanDesign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, failure.NotFound("design %s not found", id)
	}
	return d, err
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(row scanner) (Design, error) {
	var (
		d                    Design
		isPublic             int
		tags                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.Data, &d.Thumbnail,
		&isPublic, &tags, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Design{}, err
	}
	if err != nil {
		return Design{}, failure.External("scan design", err)
	}

	d.IsPublic = isPublic == 1
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return Design{}, failure.Malformed(fmt.Sprintf("design %s: tags", d.ID), err)
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return Design{}, failure.Malformed(fmt.Sprintf("design %s", d.ID), err)
	}
	if d.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return Design{}, failure.Malformed(fmt.Sprintf("design %s", d.ID), err)
	}
	return d, nil
}

// validData checks that data is a project file that imports cleanly.
func validData(data string) error {
	if _, err := project.Decode([]byte(data)); err != nil {
		return fmt.Errorf("design data: %w", err)
	}
	return nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(project.NormalizeText(name))
	if name == "" {
		return "", failure.Malformed("design name is required", nil)
	}
	return name, nil
}

// marshalTags stores tags as a JSON array with empty and duplicate entries
// removed.
func marshalTags(tags []string) (string, error) {
	clean := []string{}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(project.NormalizeText(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		clean = append(clean, tag)
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return "", failure.Malformed("marshal tags", err)
	}
	return string(data), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
