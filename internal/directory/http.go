// Package directory implements the public-key lookup contract of
// spec.md §6 as a concrete HTTP client, in the shape of the teacher's
// internal/relay.HTTP client: a Base URL, a *http.Client, and one method
// per external operation.
package directory

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/interfaces"
	"devicelink/internal/domain/types"
)

// keyResponse is the JSON shape the directory service returns; publicKey
// may be hex or base64, per spec.md §6's "equivalent inputs" requirement.
type keyResponse struct {
	PublicKey string `json:"publicKey"`
}

// HTTPResolver looks up an identity's public key over HTTP.
type HTTPResolver struct {
	Base string
	HTTP *http.Client
}

// NewHTTPResolver returns an HTTPResolver rooted at base, using
// http.DefaultClient.
func NewHTTPResolver(base string) *HTTPResolver {
	return &HTTPResolver{Base: base, HTTP: http.DefaultClient}
}

// ResolvePublicKey fetches identity's public key. The response body may
// be a raw hex string, a raw base64 string, or a JSON object with a
// publicKey field carrying either encoding; all three are accepted as
// equivalent per spec.md §6.
func (r *HTTPResolver) ResolvePublicKey(ctx context.Context, identity string) (types.X25519Public, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.Base+"/identity/"+url.PathEscape(identity)+"/key", nil)
	if err != nil {
		return types.X25519Public{}, err
	}
	resp, err := r.HTTP.Do(req)
	if err != nil {
		return types.X25519Public{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return types.X25519Public{}, fmt.Errorf("directory lookup %s: %s", identity, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.X25519Public{}, err
	}
	return decodeKeyBody(body)
}

func decodeKeyBody(body []byte) (types.X25519Public, error) {
	trimmed := trimSpace(body)

	var kr keyResponse
	if err := json.Unmarshal(trimmed, &kr); err == nil && kr.PublicKey != "" {
		return decodeKeyString(kr.PublicKey)
	}
	return decodeKeyString(string(trimmed))
}

func decodeKeyString(s string) (types.X25519Public, error) {
	s = string(trimSpace([]byte(s)))
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if b, err := hex.DecodeString(s); err == nil && len(b) == 32 {
		return types.MustX25519Public(b), nil
	}
	if b, err := base64.StdEncoding.DecodeString(s); err == nil && len(b) == 32 {
		return types.MustX25519Public(b), nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil && len(b) == 32 {
		return types.MustX25519Public(b), nil
	}
	return types.X25519Public{}, dterrors.ErrInvalidKeyLength
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

var _ interfaces.PublicKeyResolver = (*HTTPResolver)(nil)
