package favorites

import (
	"context"
	"errors"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// ErrRemoteUnavailable reports that every configured backend failed for an
// operation. Callers on the local-first path absorb it; only the hosted API
// surface ever reports it upward.
var ErrRemoteUnavailable = errors.New("favorites: remote unavailable")

// Service is the remote favorites contract shared by all backends.
type Service interface {
	// Name identifies the backend in logs.
	Name() string

	// List returns all records, newest first.
	List(ctx context.Context) ([]model.Favorite, error)

	// Upsert stores a record. Writing an existing symbol is not an error;
	// whether the stored record is replaced is backend-defined (Postgres
	// keeps the original, Redis and memory replace).
	Upsert(ctx context.Context, fav model.Favorite) error

	// Delete removes the record for symbol. Unknown symbols are a no-op.
	Delete(ctx context.Context, symbol string) error
}
