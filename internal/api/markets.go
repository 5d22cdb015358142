package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kzhou/cryptobubbles/internal/model"
)

// GetCoinMarkets fetches a page of coins ranked by the requested order.
func (c *Client) GetCoinMarkets(ctx context.Context, opts GetCoinMarketsOptions) ([]APICoin, error) {
	query := url.Values{}

	vs := opts.VsCurrency
	if vs == "" {
		vs = "usd"
	}
	query.Set("vs_currency", vs)

	order := opts.Order
	if order == "" {
		order = "market_cap_desc"
	}
	query.Set("order", order)

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	query.Set("per_page", strconv.Itoa(perPage))

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	query.Set("sparkline", "false")

	var resp []APICoin
	if err := c.get(ctx, "/coins/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get coin markets: %w", err)
	}

	return resp, nil
}

// GetCoins fetches coins and converts them to model types.
func (c *Client) GetCoins(ctx context.Context, opts GetCoinMarketsOptions) ([]model.Coin, error) {
	apiCoins, err := c.GetCoinMarkets(ctx, opts)
	if err != nil {
		return nil, err
	}

	coins := make([]model.Coin, 0, len(apiCoins))
	for _, ac := range apiCoins {
		coins = append(coins, ac.ToModel())
	}

	return coins, nil
}
