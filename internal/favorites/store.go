package favorites

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// ErrAlreadyFavorite reports an Add for a symbol already in the store.
var ErrAlreadyFavorite = errors.New("favorites: symbol already favorited")

// Store is the local-first favorites state. Every mutation applies to the
// in-memory list and the local file synchronously, then mirrors to the
// remote backend on a best-effort goroutine. Remote failures are logged and
// never surface to the caller.
type Store struct {
	local  *LocalFile
	remote Service
	logger *slog.Logger

	mu   sync.Mutex
	favs []model.Favorite

	wg sync.WaitGroup
}

// NewStore builds a store over the local file. remote may be nil, in which
// case the store is purely local.
func NewStore(local *LocalFile, remote Service, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{local: local, remote: remote, logger: logger}
}

// Load reads local state synchronously, then reconciles with the remote in
// the background. A corrupt local file is logged and treated as empty; it is
// overwritten on the next save.
func (s *Store) Load(ctx context.Context) error {
	favs, err := s.local.Load()
	if err != nil {
		if !errors.Is(err, ErrStorageCorrupt) {
			return err
		}
		s.logger.Warn("local favorites unreadable, starting empty", "error", err)
	}

	s.mu.Lock()
	s.favs = favs
	s.mu.Unlock()

	if s.remote != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.reconcile(ctx)
		}()
	}
	return nil
}

// reconcile merges remote favorites into local state, remote winning on
// conflicting symbols, and persists the result.
func (s *Store) reconcile(ctx context.Context) {
	remote, err := s.remote.List(ctx)
	if err != nil {
		s.logger.Warn("favorites reconcile skipped, remote unavailable",
			"backend", s.remote.Name(), "error", err)
		return
	}

	s.mu.Lock()
	s.favs = mergeFavorites(s.favs, remote)
	err = s.local.Save(s.favs)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("persisting merged favorites failed", "error", err)
	}
}

// Add records a new favorite. The symbol is stored as given; duplicate
// detection is case-insensitive.
func (s *Store) Add(ctx context.Context, symbol, name string) error {
	fav := model.Favorite{Symbol: symbol, Name: name, AddedAt: time.Now().UTC()}

	// Persist under the lock so concurrent mutations cannot write whole-file
	// snapshots out of order.
	s.mu.Lock()
	if s.indexOf(symbol) >= 0 {
		s.mu.Unlock()
		return ErrAlreadyFavorite
	}
	s.favs = append(s.favs, fav)
	err := s.local.Save(s.favs)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.mirror(ctx, "upsert", fav.Symbol, func(ctx context.Context) error {
		return s.remote.Upsert(ctx, fav)
	})
	return nil
}

// Remove drops a favorite. Removing an absent symbol still persists and
// mirrors, so stray remote entries get cleaned up too.
func (s *Store) Remove(ctx context.Context, symbol string) error {
	s.mu.Lock()
	if i := s.indexOf(symbol); i >= 0 {
		s.favs = append(s.favs[:i], s.favs[i+1:]...)
	}
	err := s.local.Save(s.favs)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.mirror(ctx, "delete", symbol, func(ctx context.Context) error {
		return s.remote.Delete(ctx, symbol)
	})
	return nil
}

// IsFavorite reports whether symbol is favorited, ignoring case.
func (s *Store) IsFavorite(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(symbol) >= 0
}

// Favorites returns the current list in insertion order.
func (s *Store) Favorites() []model.Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.favs)
}

// Wait blocks until in-flight remote mirrors finish. Call before exit so
// best-effort writes are not cut off.
func (s *Store) Wait() {
	s.wg.Wait()
}

// indexOf finds symbol in favs ignoring case. Caller holds mu.
func (s *Store) indexOf(symbol string) int {
	key := strings.ToLower(symbol)
	for i, f := range s.favs {
		if strings.ToLower(f.Symbol) == key {
			return i
		}
	}
	return -1
}

func (s *Store) mirror(ctx context.Context, op, symbol string, fn func(context.Context) error) {
	if s.remote == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(ctx); err != nil {
			s.logger.Warn("remote favorites mirror failed",
				"backend", s.remote.Name(), "op", op, "symbol", symbol, "error", err)
		}
	}()
}

// mergeFavorites combines local and remote lists keyed by lowercased symbol.
// Local entries keep their positions, remote entries overwrite matching
// symbols, and remote-only symbols append in remote order.
func mergeFavorites(local, remote []model.Favorite) []model.Favorite {
	order := make([]string, 0, len(local)+len(remote))
	byKey := make(map[string]model.Favorite, len(local)+len(remote))

	for _, f := range local {
		key := strings.ToLower(f.Symbol)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = f
	}
	for _, f := range remote {
		key := strings.ToLower(f.Symbol)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = f
	}

	out := make([]model.Favorite, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out
}

func snapshot(favs []model.Favorite) []model.Favorite {
	out := make([]model.Favorite, len(favs))
	copy(out, favs)
	return out
}
