package session

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUploads struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeUploads) RemoveSession(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return nil
}

// fakeClock is a settable time source
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(ttl time.Duration) (*Store, *fakeUploads, *fakeClock) {
	uploads := &fakeUploads{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	st := NewStore(ttl, uploads, discardLogger())
	st.now = clock.now
	return st, uploads, clock
}

func TestGetOrCreate(t *testing.T) {
	st, _, _ := newTestStore(time.Hour)

	s, created := st.GetOrCreate("")
	if !created {
		t.Fatal("Expected a new session for an empty id")
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("Session id should be a UUID, got %q", s.ID)
	}
	if s.Params.Temperature != 0.7 || s.Params.MaxOutputTokens != 256 {
		t.Errorf("New session should use default params, got %+v", s.Params)
	}

	again, created := st.GetOrCreate(s.ID)
	if created || again != s {
		t.Error("Expected the existing session to be returned")
	}
}

func TestGetOrCreate_UnknownIDGetsFreshID(t *testing.T) {
	st, _, _ := newTestStore(time.Hour)

	s, created := st.GetOrCreate("client-chosen-id")
	if !created {
		t.Fatal("Expected a new session for an unknown id")
	}
	if s.ID == "client-chosen-id" {
		t.Error("Unknown ids must not be adopted as session ids")
	}
	if st.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", st.Len())
	}
}

func TestGet(t *testing.T) {
	st, _, _ := newTestStore(time.Hour)

	if _, ok := st.Get(""); ok {
		t.Error("Empty id should not resolve")
	}
	if _, ok := st.Get("missing"); ok {
		t.Error("Unknown id should not resolve")
	}

	s, _ := st.GetOrCreate("")
	if got, ok := st.Get(s.ID); !ok || got != s {
		t.Error("Expected to find the created session")
	}
}

func TestDelete(t *testing.T) {
	st, uploads, _ := newTestStore(time.Hour)
	s, _ := st.GetOrCreate("")

	st.Delete(s.ID)
	st.Delete("never-existed")

	if st.Len() != 0 {
		t.Errorf("Expected store to be empty, got %d", st.Len())
	}
	if len(uploads.removed) != 1 || uploads.removed[0] != s.ID {
		t.Errorf("Expected uploads of %s to be removed once, got %v", s.ID, uploads.removed)
	}
}

func TestSweep(t *testing.T) {
	st, uploads, clock := newTestStore(time.Hour)

	old, _ := st.GetOrCreate("")
	clock.t = clock.t.Add(50 * time.Minute)
	fresh, _ := st.GetOrCreate("")

	clock.t = clock.t.Add(20 * time.Minute)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("Expected 1 expired session, got %d", n)
	}

	if _, ok := st.Get(old.ID); ok {
		t.Error("Idle session should be swept")
	}
	if _, ok := st.Get(fresh.ID); !ok {
		t.Error("Recent session should survive")
	}
	if len(uploads.removed) != 1 || uploads.removed[0] != old.ID {
		t.Errorf("Expected uploads of the swept session to be removed, got %v", uploads.removed)
	}
}

func TestSweep_AccessKeepsSessionAlive(t *testing.T) {
	st, _, clock := newTestStore(time.Hour)
	s, _ := st.GetOrCreate("")

	for i := 0; i < 3; i++ {
		clock.t = clock.t.Add(40 * time.Minute)
		st.Get(s.ID)
		st.Sweep()
	}

	if _, ok := st.Get(s.ID); !ok {
		t.Error("Session in use should not expire")
	}
}

func TestSweep_SkipsBusySession(t *testing.T) {
	st, _, clock := newTestStore(time.Minute)
	s, _ := st.GetOrCreate("")

	s.Lock()
	clock.t = clock.t.Add(time.Hour)
	if n := st.Sweep(); n != 0 {
		t.Errorf("Busy session should not be swept, got %d", n)
	}
	s.Unlock()

	if n := st.Sweep(); n != 1 {
		t.Errorf("Idle session should be swept once released, got %d", n)
	}
}

func TestSweep_PinnedSessionNeverExpires(t *testing.T) {
	st, uploads, clock := newTestStore(time.Minute)
	pinned, _ := st.GetOrCreate("")
	other, _ := st.GetOrCreate("")

	if !st.Pin(pinned.ID) {
		t.Fatal("Pin() should find the session")
	}
	if st.Pin("unknown") {
		t.Error("Pin() should report false for an unknown ID")
	}

	clock.t = clock.t.Add(48 * time.Hour)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("Expected only the unpinned session to expire, got %d", n)
	}
	if _, ok := st.Get(pinned.ID); !ok {
		t.Error("Pinned session should survive the sweep")
	}
	if len(uploads.removed) != 1 || uploads.removed[0] != other.ID {
		t.Errorf("Only the unpinned session's uploads should be removed, got %v", uploads.removed)
	}
}

func TestStartSweeper(t *testing.T) {
	st, _, _ := newTestStore(time.Hour)

	if err := st.StartSweeper(0); err == nil {
		t.Error("Expected error for zero interval")
	}

	if err := st.StartSweeper(time.Minute); err != nil {
		t.Fatalf("StartSweeper() error = %v", err)
	}
	if len(st.cron.Entries()) != 1 {
		t.Errorf("Expected one scheduled sweep, got %d", len(st.cron.Entries()))
	}
	st.Stop()
}

func TestStop_WithoutSweeper(t *testing.T) {
	st, _, _ := newTestStore(time.Hour)
	st.Stop()
}
