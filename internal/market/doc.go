// Package market implements the short-TTL cache in front of the upstream
// price feed.
//
// The cache:
//   - Serves the current snapshot without network access while fresh
//   - Coalesces concurrent refreshes into one upstream call
//   - Serves the last-known-good snapshot, marked stale, when a refresh
//     fails (staleness over unavailability)
//   - Applies a completed refresh only if it is newer than the snapshot
//     already cached, so out-of-order completions never roll data back
//
// The Refresher keeps the cache warm on an interval and feeds successful
// snapshots to a handler, typically the websocket stream hub.
package market
