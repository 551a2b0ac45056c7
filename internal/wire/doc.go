// Package wire implements the framing codecs of spec.md §4.2: relay
// length-prefixed frames, mediator typed frames, CSP length-prefixed AEAD
// frames, the message-with-metadata header, group addressing containers,
// and the file-message JSON body. Every codec here is a pure function of
// bytes in, bytes (or a decoded struct) out — no I/O, no session state.
package wire
