package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"devicelink/internal/crypto"
	"devicelink/internal/store"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the linked identity and its client-key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := store.NewIdentityFileStore(home).LoadIdentity()
			if err != nil {
				return err
			}
			pub := crypto.X25519Base(id.ClientKey)
			fmt.Printf("Identity: %s\n", id.Identity)
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(pub))
			fmt.Printf("Linked: %s\n", id.LinkedAt)
			return nil
		},
	}
}
