package api

// APICoin represents one coin from GET /coins/markets.
//
// Numeric fields are pointers because CoinGecko returns null for assets with
// no recent trades or unknown supply.
type APICoin struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Price     *float64 `json:"current_price"`
	MarketCap *float64 `json:"market_cap"`
	Change24h *float64 `json:"price_change_percentage_24h"`
}

// GetCoinMarketsOptions holds query parameters for GET /coins/markets.
type GetCoinMarketsOptions struct {
	VsCurrency string // Quote currency (default: "usd")
	Order      string // Sort order (default: "market_cap_desc")
	PerPage    int    // Page size, 1-250 (default: 100)
	Page       int    // Page number, 1-based (default: 1)
}
