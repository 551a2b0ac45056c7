// Package csp implements the chat-server-protocol session that runs over
// the mediator's proxy channel once this device is leader (spec.md §4.6):
// the nested handshake, per-direction nonce discipline, container framing,
// and the outgoing-message-ack pending table.
package csp
