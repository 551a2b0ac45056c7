package messaging

import (
	"context"
	"sync"

	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

// keyResolver caches resolved public keys in memory in addition to the
// on-disk contact cache (spec.md §4.7 step 1: "caching in a memory map
// and on disk").
type keyResolver struct {
	mu       sync.Mutex
	cache    map[string]types.X25519Public
	contacts interfaces.ContactStore
	lookup   interfaces.PublicKeyResolver
}

func newKeyResolver(contacts interfaces.ContactStore, lookup interfaces.PublicKeyResolver) *keyResolver {
	return &keyResolver{
		cache:    make(map[string]types.X25519Public),
		contacts: contacts,
		lookup:   lookup,
	}
}

func (r *keyResolver) resolve(ctx context.Context, identity string) (types.X25519Public, error) {
	r.mu.Lock()
	if pub, ok := r.cache[identity]; ok {
		r.mu.Unlock()
		return pub, nil
	}
	r.mu.Unlock()

	if c, ok, err := r.contacts.LoadContact(identity); err != nil {
		return types.X25519Public{}, err
	} else if ok {
		r.remember(identity, c.PublicKey)
		return c.PublicKey, nil
	}

	pub, err := r.lookup.ResolvePublicKey(ctx, identity)
	if err != nil {
		return types.X25519Public{}, err
	}
	if err := r.contacts.SaveContact(types.Contact{Identity: identity, PublicKey: pub}); err != nil {
		return types.X25519Public{}, err
	}
	r.remember(identity, pub)
	return pub, nil
}

func (r *keyResolver) remember(identity string, pub types.X25519Public) {
	r.mu.Lock()
	r.cache[identity] = pub
	r.mu.Unlock()
}

// featureMask returns the cached feature mask for identity, or nil if the
// contact is unknown or has never reported one.
func (r *keyResolver) featureMask(identity string) (*types.FeatureMask, error) {
	c, ok, err := r.contacts.LoadContact(identity)
	if err != nil || !ok {
		return nil, err
	}
	return c.FeatureMask, nil
}
