package model

import "time"

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Coin represents one asset from the market feed. It is the weighted entity
// the layout engine sizes bubbles by: MarketCap is the weight, everything else
// is opaque display payload carried through untouched.
type Coin struct {
	ID        string  `json:"id"`     // Primary key (e.g., "bitcoin")
	Symbol    string  `json:"symbol"` // Short code (e.g., "btc")
	Name      string  `json:"name"`   // Display name
	Price     float64 `json:"current_price"`
	Change24h float64 `json:"price_change_percentage_24h"`
	MarketCap float64 `json:"market_cap"` // Layout weight, USD
	Image     string  `json:"image"`      // Icon URL
}

// -----------------------------------------------------------------------------
// Favorites Types
// -----------------------------------------------------------------------------

// Favorite represents one bookmarked coin. Symbol is the identity key: any
// store, local or remote, holds at most one record per symbol.
type Favorite struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"` // Set once at creation, never changed
}
