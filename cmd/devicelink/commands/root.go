package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	logging "gopkg.in/op/go-logging.v1"

	"devicelink/internal/app"
	"devicelink/internal/crypto"
	"devicelink/internal/log"
	"devicelink/internal/mediator"
	"devicelink/internal/store"
)

var (
	home           string
	verbose        bool
	mediatorURL    string
	mediatorHost   string
	directoryURL   string
	blobHost       string
	rendezvousHost string

	existingSlot   bool
	pubKeyCacheTTL time.Duration
	clientInfo     string
	platform       string
	label          string
	appVersion     string
)

func Execute() error {
	root := &cobra.Command{
		Use:   "devicelink",
		Short: "Linked-device companion client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.INFO
			if verbose {
				level = logging.DEBUG
			}
			log.Configure(level)

			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".devicelink")
			}
			return os.MkdirAll(home, 0o700)
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.devicelink)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&mediatorURL, "mediator-url", "", "mediator WebSocket URL (overrides --mediator-host derivation)")
	root.PersistentFlags().StringVar(&mediatorHost, "mediator-host", "", "mediator relay host suffix, used to derive the URL from the device-group public key")
	root.PersistentFlags().StringVar(&directoryURL, "directory-url", "", "directory service base URL")
	root.PersistentFlags().StringVar(&blobHost, "blob-host", "", "blob server host")
	root.PersistentFlags().StringVar(&rendezvousHost, "rendezvous-host", "", "rendezvous relay host suffix (link only)")
	root.PersistentFlags().BoolVar(&existingSlot, "existing-slot", true, "expect an already-reserved device slot on mediator connect")
	root.PersistentFlags().DurationVar(&pubKeyCacheTTL, "public-key-cache-ttl", time.Hour, "TTL for the local directory public-key cache (0 disables)")
	root.PersistentFlags().StringVar(&clientInfo, "client-info", "devicelink", "CSP client-info string sent at login")
	root.PersistentFlags().StringVar(&platform, "platform", "Desktop", "device-info platform string")
	root.PersistentFlags().StringVar(&label, "label", "devicelink", "device-info label string")
	root.PersistentFlags().StringVar(&appVersion, "app-version", "0.0.0", "device-info app version string")

	root.AddCommand(linkCmd(), runCmd(), sendTextCmd(), sendFileCmd(), reactCmd(), fingerprintCmd())
	return root.Execute()
}

// loadApp wires the full dependency graph against an already-linked
// identity. Commands other than link require this to succeed.
func loadApp() (*app.App, error) {
	resolvedMediatorURL, err := resolveMediatorURL()
	if err != nil {
		return nil, err
	}
	return app.NewWire(app.Config{
		Home:              home,
		MediatorURL:       resolvedMediatorURL,
		DirectoryURL:      directoryURL,
		BlobHost:          blobHost,
		ExistingSlot:      existingSlot,
		PublicKeyCacheTTL: pubKeyCacheTTL,
		ClientInfo:        clientInfo,
		Platform:          platform,
		Label:             label,
		AppVersion:        appVersion,
	})
}

// resolveMediatorURL returns the explicit --mediator-url override if set,
// otherwise derives it from --mediator-host and the persisted identity's
// device-group public key (spec.md §6's mediator URL shape).
func resolveMediatorURL() (string, error) {
	if mediatorURL != "" {
		return mediatorURL, nil
	}
	if mediatorHost == "" {
		return "", fmt.Errorf("one of --mediator-url or --mediator-host is required")
	}
	id, err := store.NewIdentityFileStore(home).LoadIdentity()
	if err != nil {
		return "", err
	}
	keys, err := crypto.DeriveDeviceGroupKeys(id.DeviceGroupKey)
	if err != nil {
		return "", err
	}
	return mediator.URL(mediatorHost, keys.DGPKPublic), nil
}
