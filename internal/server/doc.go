// Package server exposes the HTTP API: market snapshots, server-side layout,
// favorites CRUD, health, and the websocket stream endpoint.
package server
