// Package app wires the concrete stores, clients, and protocol sessions
// into the collaborator interfaces the core packages are built against,
// mirroring the teacher's internal/app composition root.
package app
