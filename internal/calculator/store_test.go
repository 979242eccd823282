package calculator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStoreCreateAndWith(t *testing.T) {
	store := NewStore(newTestEngine(t))

	snap, err := store.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := uuid.Parse(snap.SessionID); err != nil {
		t.Fatalf("expected UUID session id, got %q: %v", snap.SessionID, err)
	}
	if snap.Mode != Generic || snap.Base != Dec || snap.Angle != Radians {
		t.Fatalf("unexpected defaults %+v", snap)
	}
	if snap.Display.Main != "0" {
		t.Fatalf("expected main line %q, got %q", "0", snap.Display.Main)
	}

	snap, err = store.With(snap.SessionID, func(s *Session) error {
		s.Append("6*7")
		return s.Calculate()
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if snap.State.CurrentText != "42" || snap.Display.Previous != "6*7 =" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreWithReturnsSnapshotOnError(t *testing.T) {
	store := NewStore(newTestEngine(t))
	snap, _ := store.Create()

	got, err := store.With(snap.SessionID, func(s *Session) error {
		return s.SetBase(Hex)
	})
	if !errors.Is(err, ErrBaseUnavailable) {
		t.Fatalf("expected ErrBaseUnavailable, got %v", err)
	}
	if got.SessionID != snap.SessionID {
		t.Fatalf("expected snapshot of %q, got %+v", snap.SessionID, got)
	}
}

func TestStoreMaxSessions(t *testing.T) {
	store := NewStore(newTestEngine(t), WithMaxSessions(1))

	if _, err := store.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(newTestEngine(t))
	snap, _ := store.Create()

	if !store.Delete(snap.SessionID) {
		t.Fatal("expected delete to succeed")
	}
	if store.Delete(snap.SessionID) {
		t.Fatal("expected second delete to report missing session")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewStore(newTestEngine(t), WithTTL(time.Minute), withClock(clock.Now))

	idle, _ := store.Create()
	clock.Advance(45 * time.Second)
	active, _ := store.Create()
	clock.Advance(30 * time.Second)

	if n := store.Sweep(); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if _, err := store.Get(idle.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to be gone, got %v", err)
	}
	if _, err := store.Get(active.SessionID); err != nil {
		t.Fatalf("expected active session to survive: %v", err)
	}
}

func TestStoreRunStopsOnCancel(t *testing.T) {
	store := NewStore(newTestEngine(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}

func TestStoreCollector(t *testing.T) {
	store := NewStore(newTestEngine(t))
	reg := prometheus.NewRegistry()
	if err := reg.Register(store.Collector()); err != nil {
		t.Fatalf("registering collector: %v", err)
	}

	store.Create()
	store.Create()

	if got := testutil.ToFloat64(store.Collector()); got != 2 {
		t.Fatalf("expected 2 active sessions, got %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "calculator_active_sessions"); err != nil || n != 1 {
		t.Fatalf("expected one gathered series, got %d (%v)", n, err)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(newTestEngine(t))
	snap, _ := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.With(snap.SessionID, func(s *Session) error {
				s.Append("1")
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := store.Get(snap.SessionID)
	if len(got.State.CurrentText) != 20 {
		t.Fatalf("expected 20 digits, got %q", got.State.CurrentText)
	}
}
