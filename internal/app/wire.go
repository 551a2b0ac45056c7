package app

import (
	"context"
	"encoding/binary"
	"net/http"
	"path/filepath"

	"devicelink/internal/blob"
	"devicelink/internal/crypto"
	"devicelink/internal/csp"
	"devicelink/internal/dedupe"
	"devicelink/internal/directory"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/log"
	"devicelink/internal/messaging"
	"devicelink/internal/rendezvous"
	"devicelink/internal/store"
	"devicelink/internal/supervisor"
	"devicelink/internal/wire"
)

var logger = log.New("app")

// NewWire constructs the full dependency graph from cfg. The identity
// must already be persisted (via a prior device-join); NewWire loads it
// rather than creating one.
func NewWire(cfg Config) (*App, error) {
	identityStore := store.NewIdentityFileStore(cfg.Home)
	identity, err := identityStore.LoadIdentity()
	if err != nil {
		return nil, err
	}
	if identity.DeviceID == 0 {
		b, err := crypto.RandomBytes(8)
		if err != nil {
			return nil, err
		}
		identity.DeviceID = binary.LittleEndian.Uint64(b)
		if err := identityStore.SaveDeviceID(identity.DeviceID); err != nil {
			return nil, err
		}
	}

	contactStore := store.NewContactFileStore(cfg.Home)
	groupStore := store.NewGroupFileStore(cfg.Home)
	dedupeStore := store.NewDedupeFileStore(cfg.Home)
	mediaStore := store.NewMediaFileStore(cfg.Home)

	dedupeLRU, err := dedupe.NewLRU(dedupeStore)
	if err != nil {
		return nil, err
	}
	evolving := dedupe.NewEvolvingReplies()

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	httpResolver := directory.NewHTTPResolver(cfg.DirectoryURL)
	httpResolver.HTTP = httpClient
	var resolver interfaces.PublicKeyResolver = httpResolver
	if cfg.PublicKeyCacheTTL > 0 {
		cached, err := directory.NewCachedResolver(filepath.Join(cfg.Home, "publickeys.db"), resolver, cfg.PublicKeyCacheTTL)
		if err != nil {
			return nil, err
		}
		resolver = cached
	}

	blobTransport := &blob.HTTPTransport{HTTP: httpClient}
	blobChannel := blob.NewChannel(blobTransport, blobTransport, cfg.BlobHost)

	deviceGroupKeys, err := crypto.DeriveDeviceGroupKeys(identity.DeviceGroupKey)
	if err != nil {
		return nil, err
	}

	deps := supervisor.Dependencies{
		Dialer:      rendezvous.WSDialer{},
		MediatorURL: cfg.MediatorURL,

		DeviceKeys:   deviceGroupKeys,
		DeviceID:     identity.DeviceID,
		DeviceInfo:   wire.DeviceInfo{Platform: cfg.Platform, Label: cfg.Label, AppVersion: cfg.AppVersion},
		ExistingSlot: cfg.ExistingSlot,

		LoginParams: csp.LoginParams{
			Identity:     identity.Identity,
			ClientKey:    identity.ClientKey,
			DeviceID:     identity.DeviceID,
			DeviceCookie: identity.DeviceCookie,
			ClientInfo:   cfg.ClientInfo,
		},
		DedupeCheck: func(sender string, messageID uint64) bool {
			return dedupeLRU.Seen(dedupe.Key(sender, messageID))
		},
		OnEnvelope: (&envelopePump{contacts: contactStore, groups: groupStore, dedupe: dedupeLRU}).handle,

		AccountID: identity.Identity,
		Evolving:  evolving,
	}

	sup := supervisor.New(deps)

	engine := messaging.NewEngine(identity, contactStore, groupStore, resolver, sup, sup, blobChannel, evolving, messaging.Config{
		DeviceGroupPrefix: identity.Identity[:4],
		DeviceGroupID:     cfg.DeviceGroupID,
		BlobHost:          cfg.BlobHost,
	})

	pump := &inboundPump{
		identity: identity.Identity,
		engine:   engine,
		dedupe:   dedupeLRU,
		media:    mediaStore,
		blob:     blobChannel,
		groups:   groupStore,
		agent:    cfg.AgentDispatcher,
	}
	sup.SetOnIncomingMessage(pump.handle)

	return New(identity, identityStore, contactStore, groupStore, mediaStore, dedupeLRU, evolving, resolver, blobChannel, sup, engine, cfg.AgentDispatcher), nil
}

// Run starts the supervisor's connect/reconnect loop and blocks until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	a.Supervisor.Run(ctx)
}
