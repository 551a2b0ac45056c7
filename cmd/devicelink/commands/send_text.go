package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sendTextCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "send-text <recipient> <text>",
		Short: "Encrypt and send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := connectShort(ctx)
			if err != nil {
				return err
			}
			defer a.Supervisor.Shutdown()

			if group != "" {
				addr, err := parseGroupAddress(group)
				if err != nil {
					return err
				}
				members, err := groupMembers(a, addr)
				if err != nil {
					return err
				}
				if err := a.Engine.SendGroupText(ctx, addr, members, args[1]); err != nil {
					return err
				}
			} else {
				if err := a.Engine.SendText(ctx, args[0], args[1]); err != nil {
					return err
				}
			}
			fmt.Println("sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "send to a group instead (creator:groupId); ignores the recipient argument")
	return cmd
}
