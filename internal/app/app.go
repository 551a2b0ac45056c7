package app

import (
	"devicelink/internal/blob"
	"devicelink/internal/dedupe"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
	"devicelink/internal/supervisor"
)

// App bundles the fully wired collaborators the CLI drives.
type App struct {
	Identity types.Identity

	IdentityStore interfaces.IdentityStore
	Contacts      interfaces.ContactStore
	Groups        interfaces.GroupStore
	Media         interfaces.MediaStore
	Dedupe        *dedupe.LRU
	Evolving      *dedupe.EvolvingReplies

	Directory interfaces.PublicKeyResolver
	Blob      *blob.Channel

	Supervisor *supervisor.Supervisor
	Engine     interfaces.MessageEngine

	AgentDispatcher interfaces.AgentDispatcher
}

// New bundles already-constructed collaborators. NewWire is the usual
// entry point; New exists for tests that substitute fakes for one or
// more collaborators.
func New(identity types.Identity, identityStore interfaces.IdentityStore, contacts interfaces.ContactStore, groups interfaces.GroupStore, media interfaces.MediaStore, dedupeLRU *dedupe.LRU, evolving *dedupe.EvolvingReplies, dir interfaces.PublicKeyResolver, blobChannel *blob.Channel, sup *supervisor.Supervisor, engine interfaces.MessageEngine, agent interfaces.AgentDispatcher) *App {
	return &App{
		Identity:        identity,
		IdentityStore:   identityStore,
		Contacts:        contacts,
		Groups:          groups,
		Media:           media,
		Dedupe:          dedupeLRU,
		Evolving:        evolving,
		Directory:       dir,
		Blob:            blobChannel,
		Supervisor:      sup,
		Engine:          engine,
		AgentDispatcher: agent,
	}
}
