// Package api provides the CoinGecko REST client for market data.
//
// REST endpoint:
//   - Production: https://api.coingecko.com/api/v3
//
// Key route: /coins/markets (price, 24h change, market cap per coin).
// Unauthenticated access is rate limited; the client retries 429 and 5xx
// responses with jittered exponential backoff.
package api
