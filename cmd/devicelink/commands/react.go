package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func reactCmd() *cobra.Command {
	var group string
	var unset bool
	cmd := &cobra.Command{
		Use:   "react <recipient> <targetMessageId> <emoji>",
		Short: "React to a previously sent or received message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetMessageID, err := parseMessageID(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			a, err := connectShort(ctx)
			if err != nil {
				return err
			}
			defer a.Supervisor.Shutdown()

			apply := !unset
			if group != "" {
				addr, err := parseGroupAddress(group)
				if err != nil {
					return err
				}
				members, err := groupMembers(a, addr)
				if err != nil {
					return err
				}
				outcome, err := a.Engine.SendGroupReaction(ctx, addr, members, targetMessageID, args[2], apply)
				if err != nil {
					return err
				}
				printReactionOutcome(outcome)
				return nil
			}

			outcome, err := a.Engine.SendReaction(ctx, args[0], targetMessageID, args[2], apply)
			if err != nil {
				return err
			}
			printReactionOutcome(outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "react within a group instead (creator:groupId); ignores the recipient argument")
	cmd.Flags().BoolVar(&unset, "unset", false, "remove a previously applied reaction instead of applying one")
	return cmd
}
