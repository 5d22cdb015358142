// Package favorites implements the local-first favorites store and the
// remote favorites service it mirrors to.
//
// The store:
//   - Loads the durable local copy immediately; remote reconciliation runs
//     in the background and never blocks or fails the caller
//   - Applies mutations to local state first (optimistic), then mirrors
//     them to the remote service best-effort; remote failures are logged
//     and swallowed
//   - Merges local and remote lists keyed by symbol, remote winning on
//     collision (see mergeFavorites for the exact policy)
//
// The remote service has three interchangeable backends: Redis (key-value),
// Postgres (relational) and an in-process map. Chain tries them in priority
// order per operation, falling through on error; availability is
// re-evaluated on every call, a failing backend is never demoted.
package favorites
