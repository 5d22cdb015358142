package favorites

import (
	"context"
	"sort"
	"sync"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// Memory is the in-process backend. It is the fallback of last resort and
// the only backend guaranteed always available; state lives for the process
// lifetime only.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]model.Favorite
}

// NewMemory creates an empty in-process backend.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]model.Favorite)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) List(ctx context.Context) ([]model.Favorite, error) {
	m.mu.RLock()
	out := make([]model.Favorite, 0, len(m.recs))
	for _, f := range m.recs {
		out = append(out, f)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out, nil
}

func (m *Memory) Upsert(ctx context.Context, fav model.Favorite) error {
	m.mu.Lock()
	m.recs[fav.Symbol] = fav
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, symbol string) error {
	m.mu.Lock()
	delete(m.recs, symbol)
	m.mu.Unlock()
	return nil
}
