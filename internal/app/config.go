package app

import (
	"net/http"
	"time"

	"devicelink/internal/domain/interfaces"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home string // config directory, e.g. $HOME/.devicelink

	MediatorURL   string // wss://mediator-<prefix4>.<host>/<prefix8>/<hex public DGPK>
	DirectoryURL  string // base URL of the public-key lookup service
	BlobHost      string
	DeviceGroupID string

	// ExistingSlot selects the expected slot state for the first mediator
	// handshake; once a handshake has succeeded, every reconnect expects an
	// existing slot.
	ExistingSlot bool

	// PublicKeyCacheTTL bounds how long a resolved public key is served
	// from the bbolt cache before CachedResolver re-fetches it. Zero
	// disables caching (queries go straight to DirectoryURL).
	PublicKeyCacheTTL time.Duration

	ClientInfo string
	Platform   string
	Label      string
	AppVersion string

	// AgentDispatcher is optional; a nil value means incoming text
	// messages are received and deduped but never produce a reply.
	AgentDispatcher interfaces.AgentDispatcher

	HTTP *http.Client // optional; defaults to http.DefaultClient
}
