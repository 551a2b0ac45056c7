// Package dedupe implements the incoming-message dedupe LRU and the
// evolving-reply session table (spec.md §4.9): both are pure in-memory
// structures with an optional disk-backed snapshot for the former.
package dedupe
