// Package devicejoin consumes the typed message stream sent over a
// Nominated rendezvous session (spec.md §4.4): a single Begin marker, zero
// or more BlobData frames, and exactly one EssentialData message carrying
// the identity material this device needs to operate. On success it
// persists everything via the store interfaces and acknowledges with a
// single Registered message.
package devicejoin
