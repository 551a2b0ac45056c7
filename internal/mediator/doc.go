// Package mediator implements the long-lived D2M session (spec.md §4.5):
// the auth handshake against the mediator server, role arbitration,
// reflection of envelopes to device-group peers, and transparent proxying
// of CSP bytes once this device is promoted to leader.
package mediator
