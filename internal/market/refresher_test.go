package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRefresher_DeliversSnapshots(t *testing.T) {
	src := &countingSource{coins: testSnapshot}
	c := NewCache(Config{TTL: time.Minute}, src, nil)

	var mu sync.Mutex
	var delivered []Snapshot
	handler := SnapshotHandlerFunc(func(s Snapshot) {
		mu.Lock()
		delivered = append(delivered, s)
		mu.Unlock()
	})

	r := NewRefresher(RefresherConfig{Interval: 20 * time.Millisecond}, c, handler, nil)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(70 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	// Immediate refresh plus at least two ticks.
	if len(delivered) < 3 {
		t.Errorf("delivered = %d snapshots, want >= 3", len(delivered))
	}
	for i, s := range delivered {
		if s.Stale {
			t.Errorf("snapshot %d marked stale", i)
		}
		if len(s.Coins) != len(testSnapshot) {
			t.Errorf("snapshot %d has %d coins, want %d", i, len(s.Coins), len(testSnapshot))
		}
	}
}

func TestRefresher_SkipsFailedRefreshes(t *testing.T) {
	src := &countingSource{err: errors.New("upstream down")}
	c := NewCache(Config{TTL: time.Minute}, src, nil)

	var delivered sync.Map
	handler := SnapshotHandlerFunc(func(s Snapshot) {
		delivered.Store(s.FetchedAt, s)
	})

	r := NewRefresher(RefresherConfig{Interval: 10 * time.Millisecond}, c, handler, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(35 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}

	count := 0
	delivered.Range(func(_, _ any) bool { count++; return true })
	if count != 0 {
		t.Errorf("delivered = %d snapshots during outage, want 0", count)
	}
}

func TestRefresher_Lifecycle(t *testing.T) {
	src := &countingSource{coins: testSnapshot}
	c := NewCache(Config{TTL: time.Minute}, src, nil)
	r := NewRefresher(RefresherConfig{Interval: time.Hour}, c, nil, nil)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
