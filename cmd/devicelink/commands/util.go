package commands

import (
	"fmt"
	"strconv"

	"devicelink/internal/domain/interfaces"
)

func parseMessageID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad message id %q: %w", s, err)
	}
	return id, nil
}

func printReactionOutcome(o interfaces.ReactionOutcome) {
	fmt.Printf("reaction outcome: %s\n", o.Mode)
	for _, r := range o.LegacyRecipients {
		fmt.Printf("  legacy receipt sent to %s\n", r)
	}
}
