package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to the mediator, wait for leader+CSP, and idle",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go a.Run(ctx)

			if err := a.Supervisor.WaitForLeaderAndCSP(ctx); err != nil {
				return fmt.Errorf("waiting for leader+CSP: %w", err)
			}
			fmt.Printf("connected as %s; leader and CSP ready\n", a.Identity.Identity)

			<-ctx.Done()
			a.Supervisor.Shutdown()
			return nil
		},
	}
}
