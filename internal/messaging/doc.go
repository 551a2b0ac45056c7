// Package messaging implements the message-composition engine (spec.md
// §4.7): per-recipient AEAD sealing, padding, group container wrapping,
// the reflect-then-CSP send order, the reaction fallback matrix, and the
// evolving-reply streaming-edit state machine.
package messaging
