package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/cardsmith/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a clock that
// advances one second per call and predictable design ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	clock := testutil.NewStepClock(time.Time{}, time.Second)
	ids := testutil.NewSequenceGenerator("design")
	s, err := Open(path, WithNow(clock.Now), WithIDGenerator(ids.Generate))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const testProjectData = `{"version":"1.0","front":{"shapes":[],"canvasSettings":{"width":856,"height":540}},"back":{"shapes":[],"canvasSettings":{"width":856,"height":540}}}`
