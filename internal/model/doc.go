// Package model defines shared data types used across the crypto bubbles service.
//
// Conventions:
//   - Coin mirrors the CoinGecko /coins/markets response field names in JSON
//   - Favorite mirrors the favorites API wire format (added_at as RFC 3339)
//   - Both are value types, freely copyable; no component mutates a Coin it
//     did not create
package model
