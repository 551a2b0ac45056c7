package commands

import (
	"context"
	"fmt"
	"time"

	"devicelink/internal/app"
)

// connectShort builds the app, connects the supervisor in the background,
// and blocks until this device holds the CSP leader role or timeout
// elapses. One-shot send/react commands need the leader role since only
// the CSP leader can send outgoing messages (spec.md §4.10).
func connectShort(ctx context.Context) (*app.App, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}

	go a.Run(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := a.Supervisor.WaitForLeaderAndCSP(waitCtx); err != nil {
		a.Supervisor.Shutdown()
		return nil, fmt.Errorf("waiting for leader+CSP: %w", err)
	}
	return a, nil
}
