package directory_test

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"devicelink/internal/directory"
	"devicelink/internal/domain/types"
)

func TestHTTPResolverAcceptsHexBody(t *testing.T) {
	want := types.X25519Public{1, 2, 3, 4}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hex.EncodeToString(want.Slice()))
	}))
	defer srv.Close()

	r := directory.NewHTTPResolver(srv.URL)
	got, err := r.ResolvePublicKey(context.Background(), "ABCD1234")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHTTPResolverAcceptsBase64JSONBody(t *testing.T) {
	want := types.X25519Public{5, 6, 7, 8}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"publicKey":"%s"}`, base64.StdEncoding.EncodeToString(want.Slice()))
	}))
	defer srv.Close()

	r := directory.NewHTTPResolver(srv.URL)
	got, err := r.ResolvePublicKey(context.Background(), "ABCD1234")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestHTTPResolverRejectsWrongLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, hex.EncodeToString([]byte{1, 2, 3}))
	}))
	defer srv.Close()

	r := directory.NewHTTPResolver(srv.URL)
	_, err := r.ResolvePublicKey(context.Background(), "ABCD1234")
	require.Error(t, err)
}

func TestHTTPResolverPropagatesNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := directory.NewHTTPResolver(srv.URL)
	_, err := r.ResolvePublicKey(context.Background(), "ABCD1234")
	require.Error(t, err)
}

type countingResolver struct {
	calls int
	key   types.X25519Public
}

func (c *countingResolver) ResolvePublicKey(ctx context.Context, identity string) (types.X25519Public, error) {
	c.calls++
	return c.key, nil
}

func TestCachedResolverServesFromCacheWithinTTL(t *testing.T) {
	upstream := &countingResolver{key: types.X25519Public{9, 9, 9}}
	dbPath := filepath.Join(t.TempDir(), "keys.db")
	cache, err := directory.NewCachedResolver(dbPath, upstream, time.Hour)
	require.NoError(t, err)
	defer cache.Close()

	for i := 0; i < 3; i++ {
		got, err := cache.ResolvePublicKey(context.Background(), "ABCD1234")
		require.NoError(t, err)
		require.Equal(t, upstream.key, got)
	}
	require.Equal(t, 1, upstream.calls)
}

func TestCachedResolverRefetchesAfterTTLExpiry(t *testing.T) {
	upstream := &countingResolver{key: types.X25519Public{1}}
	dbPath := filepath.Join(t.TempDir(), "keys.db")
	cache, err := directory.NewCachedResolver(dbPath, upstream, time.Millisecond)
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.ResolvePublicKey(context.Background(), "ABCD1234")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cache.ResolvePublicKey(context.Background(), "ABCD1234")
	require.NoError(t, err)
	require.Equal(t, 2, upstream.calls)
}
