package blob

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"devicelink/internal/domain/interfaces"
)

// HTTPTransport implements both interfaces.BlobUploader and
// interfaces.BlobDownloader over a plain *http.Client, in the shape of
// the teacher's relay.HTTP client.
type HTTPTransport struct {
	HTTP *http.Client
}

// NewHTTPTransport returns an HTTPTransport using http.DefaultClient.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{HTTP: http.DefaultClient}
}

// Upload posts ciphertext as a multipart/form-data body (field "blob")
// and reads back a 32-char hex blob id from the plain-text response
// body, per spec.md §6's blob service contract.
func (t *HTTPTransport) Upload(ctx context.Context, url string, ciphertext []byte) (string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("blob", "blob")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(ciphertext); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("blob upload %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 128))
	if err != nil {
		return "", err
	}
	blobIDHex := string(bytes.TrimSpace(body))
	if _, err := hex.DecodeString(blobIDHex); err != nil {
		return "", fmt.Errorf("blob upload %s: response %q is not hex", url, blobIDHex)
	}
	return blobIDHex, nil
}

// Download fetches raw ciphertext from url.
func (t *HTTPTransport) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("blob download %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

var (
	_ interfaces.BlobUploader   = (*HTTPTransport)(nil)
	_ interfaces.BlobDownloader = (*HTTPTransport)(nil)
)
