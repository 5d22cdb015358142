package api

import "github.com/kzhou/cryptobubbles/internal/model"

// deref returns the pointed-to value, or 0 for null JSON fields.
func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ToModel converts an APICoin to model.Coin.
func (c *APICoin) ToModel() model.Coin {
	return model.Coin{
		ID:        c.ID,
		Symbol:    c.Symbol,
		Name:      c.Name,
		Image:     c.Image,
		Price:     deref(c.Price),
		Change24h: deref(c.Change24h),
		MarketCap: deref(c.MarketCap),
	}
}
