package favorites

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kzhou/cryptobubbles/internal/model"
)

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorite_coins (
	id serial PRIMARY KEY,
	symbol text UNIQUE NOT NULL,
	name text NOT NULL,
	added_at timestamptz DEFAULT now()
)`

// Postgres persists favorites in the favorite_coins table. The table is
// created lazily on first use so the backend works against a fresh database.
type Postgres struct {
	pool *pgxpool.Pool

	once    sync.Once
	onceErr error
}

// NewPostgres wraps an existing connection pool. The caller owns the pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) ensureTable(ctx context.Context) error {
	p.once.Do(func() {
		_, err := p.pool.Exec(ctx, createFavoritesTable)
		if err != nil {
			p.onceErr = fmt.Errorf("creating favorite_coins table: %w", err)
		}
	})
	return p.onceErr
}

func (p *Postgres) List(ctx context.Context) ([]model.Favorite, error) {
	if err := p.ensureTable(ctx); err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT symbol, name, added_at FROM favorite_coins ORDER BY added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var out []model.Favorite
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.Symbol, &f.Name, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating favorites: %w", err)
	}
	return out, nil
}

// Upsert inserts the favorite if its symbol is not already present. An
// existing row keeps its original name and added_at.
func (p *Postgres) Upsert(ctx context.Context, fav model.Favorite) error {
	if err := p.ensureTable(ctx); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO favorite_coins (symbol, name, added_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (symbol) DO NOTHING`,
		fav.Symbol, fav.Name, fav.AddedAt)
	if err != nil {
		return fmt.Errorf("inserting favorite %s: %w", fav.Symbol, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, symbol string) error {
	if err := p.ensureTable(ctx); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx,
		`DELETE FROM favorite_coins WHERE symbol = $1`, symbol)
	if err != nil {
		return fmt.Errorf("deleting favorite %s: %w", symbol, err)
	}
	return nil
}
