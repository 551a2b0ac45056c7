package directory

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"

	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

const publicKeysBucket = "publicKeys"

// CachedResolver wraps a PublicKeyResolver with a bbolt-backed TTL cache
// keyed by identity, supplementing the contacts.json cache spec.md §6
// already requires (that cache has no expiry; this one does, so a
// rotated key on the directory service is eventually picked back up).
type CachedResolver struct {
	upstream interfaces.PublicKeyResolver
	db       *bolt.DB
	ttl      time.Duration
}

type cacheEntry struct {
	key       types.X25519Public
	fetchedAt time.Time
}

// NewCachedResolver opens (or creates) a bbolt database at path and wraps
// upstream with a ttl-bounded cache in front of it.
func NewCachedResolver(path string, upstream interfaces.PublicKeyResolver, ttl time.Duration) (*CachedResolver, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(publicKeysBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &CachedResolver{upstream: upstream, db: db, ttl: ttl}, nil
}

// ResolvePublicKey serves from the bbolt cache when a non-expired entry
// exists, otherwise resolves upstream and stores the result.
func (c *CachedResolver) ResolvePublicKey(ctx context.Context, identity string) (types.X25519Public, error) {
	if entry, ok := c.get(identity); ok {
		if time.Since(entry.fetchedAt) < c.ttl {
			return entry.key, nil
		}
	}

	key, err := c.upstream.ResolvePublicKey(ctx, identity)
	if err != nil {
		return types.X25519Public{}, err
	}
	if err := c.put(identity, key); err != nil {
		logger.Warningf("public key cache write for %s failed: %v", identity, err)
	}
	return key, nil
}

// encodeEntry builds the fixed 40-byte on-disk value: 32-byte key || 8-byte
// little-endian unix-milli fetch timestamp.
func encodeEntry(e cacheEntry) []byte {
	out := make([]byte, 40)
	copy(out[:32], e.key.Slice())
	binary.LittleEndian.PutUint64(out[32:], uint64(e.fetchedAt.UnixMilli()))
	return out
}

func decodeEntry(b []byte) (cacheEntry, bool) {
	if len(b) != 40 {
		return cacheEntry{}, false
	}
	return cacheEntry{
		key:       types.MustX25519Public(b[:32]),
		fetchedAt: time.UnixMilli(int64(binary.LittleEndian.Uint64(b[32:]))),
	}, true
}

func (c *CachedResolver) get(identity string) (cacheEntry, bool) {
	var out cacheEntry
	var found bool
	_ = c.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(publicKeysBucket))
		v := bkt.Get([]byte(identity))
		if v == nil {
			return nil
		}
		out, found = decodeEntry(v)
		return nil
	})
	return out, found
}

func (c *CachedResolver) put(identity string, key types.X25519Public) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(publicKeysBucket))
		return bkt.Put([]byte(identity), encodeEntry(cacheEntry{key: key, fetchedAt: time.Now()}))
	})
}

// Close releases the underlying bbolt database handle.
func (c *CachedResolver) Close() error {
	return c.db.Close()
}

var _ interfaces.PublicKeyResolver = (*CachedResolver)(nil)
