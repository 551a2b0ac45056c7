// Package commands defines the devicelink CLI and wires dependencies for
// its subcommands.
//
// Commands
//
//   - link         Print a QR join payload and complete device-join
//   - run          Connect the mediator/CSP session pair and idle
//   - send-text    Encrypt and send a text message
//   - send-file    Upload and send a file message
//   - react        Send or unset a reaction to a message
//   - fingerprint  Print the linked identity and its fingerprint
//
// # Implementation
//
// The root command configures logging and the config directory before any
// subcommand runs. link operates directly on internal/rendezvous and
// internal/devicejoin, since no persisted identity exists yet; every other
// command wires the full dependency graph through internal/app.NewWire
// against the identity link already produced.
package commands
