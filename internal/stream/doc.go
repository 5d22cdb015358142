// Package stream broadcasts market snapshots to websocket subscribers.
//
// The hub receives snapshots from the market refresher and fans them out to
// every connected client. Clients that cannot keep up are dropped rather
// than allowed to stall the broadcast.
package stream
