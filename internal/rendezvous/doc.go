// Package rendezvous implements the one-time relay session used to join a
// new device to an existing account (spec.md §4.3): a single pathId=1
// relay channel carrying a four-state handshake (AwaitingHello →
// AwaitingAuth → AwaitingNominate → Nominated) that swaps authentication
// keys for transport keys, followed by device-join message consumption
// (see internal/devicejoin).
package rendezvous
