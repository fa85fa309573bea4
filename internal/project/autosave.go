package project

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/failure"
)

// AutosaveSlot is the fixed slot name autosave records are written under.
const AutosaveSlot = "autosave"

// DefaultAutosaveInterval is how often Run ticks.
const DefaultAutosaveInterval = 30 * time.Second

// Autosave is one recovery record.
type Autosave struct {
	Slot    string
	Session string
	Hash    string
	SavedAt time.Time
	Data    []byte
}

// Source provides the live document. *editor.Editor implements it.
type Source interface {
	Document() document.Document
	CurrentSide() document.SideID
}

// Sink persists autosave records. *store.Store implements it.
type Sink interface {
	WriteAutosave(ctx context.Context, a Autosave) error
}

// Autosaver periodically writes the live document to a Sink, skipping
// writes when the content has not changed since the last successful save.
//
// Tick and Flush are meant to be called from the same goroutine that
// mutates the Source; Run does that for callers whose Source is safe to read
// from a timer goroutine.
type Autosaver struct {
	src      Source
	sink     Sink
	session  string
	now      func() time.Time
	logger   *slog.Logger
	lastHash string
}

// AutosaverOption configures an Autosaver.
type AutosaverOption func(*Autosaver)

// WithSession sets the session key. Defaults to a fresh UUIDv7.
func WithSession(key string) AutosaverOption {
	return func(a *Autosaver) { a.session = key }
}

// WithNow sets the wall clock used for lastModified.
func WithNow(now func() time.Time) AutosaverOption {
	return func(a *Autosaver) { a.now = now }
}

// WithAutosaveLogger sets the logger for save and failure events.
func WithAutosaveLogger(l *slog.Logger) AutosaverOption {
	return func(a *Autosaver) { a.logger = l }
}

// NewAutosaver creates an autosaver reading from src and writing to sink.
func NewAutosaver(src Source, sink Sink, opts ...AutosaverOption) *Autosaver {
	a := &Autosaver{
		src:  src,
		sink: sink,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.session == "" {
		a.session = uuid.Must(uuid.NewV7()).String()
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a
}

// Session returns the session key records are written under.
func (a *Autosaver) Session() string {
	return a.session
}

// Tick is the timer callback. It writes a record when content changed and
// reports whether it did. Sink failures are returned as external-service
// errors and the next Tick tries again.
func (a *Autosaver) Tick(ctx context.Context) (bool, error) {
	now := a.now().UTC()
	p := New(a.src.Document(), a.src.CurrentSide(), now)
	p.LastModified = &now
	p.AutoSaved = true

	hash, err := ContentHash(p)
	if err != nil {
		return false, err
	}
	if hash == a.lastHash {
		return false, nil
	}

	data, err := Encode(p)
	if err != nil {
		return false, err
	}
	rec := Autosave{
		Slot:    AutosaveSlot,
		Session: a.session,
		Hash:    hash,
		SavedAt: now,
		Data:    data,
	}
	if err := a.sink.WriteAutosave(ctx, rec); err != nil {
		a.logger.Warn("autosave failed", "session", a.session, "error", err)
		if failure.CodeOf(err) != "" {
			return false, err
		}
		return false, failure.External("write autosave", err)
	}
	a.lastHash = hash
	a.logger.Debug("autosaved", "session", a.session, "hash", hash[:12])
	return true, nil
}

// Flush is the shutdown hook: one final best-effort save.
func (a *Autosaver) Flush(ctx context.Context) error {
	_, err := a.Tick(ctx)
	return err
}

// Run ticks every interval until ctx is cancelled, then flushes with a
// fresh context so the final write is not cut short by the cancellation.
func (a *Autosaver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return a.Flush(context.WithoutCancel(ctx))
		case <-ticker.C:
			if _, err := a.Tick(ctx); err != nil {
				a.logger.Warn("autosave tick failed", "error", err)
			}
		}
	}
}

// Recover decodes an autosave record back into a project.
func Recover(a Autosave) (Project, error) {
	return Decode(a.Data)
}
