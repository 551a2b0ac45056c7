// Package log configures the process-wide logger. Every session package
// pulls its own named sub-logger via New, matching go-logging's usual
// per-module convention.
package log

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var backendConfigured bool

// Configure installs a leveled, formatted stderr backend. Safe to call
// more than once; only the first call takes effect.
func Configure(level logging.Level) {
	if backendConfigured {
		return
	}
	backendConfigured = true

	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
	)
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

// New returns a named logger for module, e.g. New("mediator").
func New(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}
