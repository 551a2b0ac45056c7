package crypto

import "crypto/rand"

// rngReader is the CSPRNG source for every key, nonce and pad in this
// package. Swapping it out (tests aside) is never correct.
var rngReader = rand.Reader

// RandomBytes returns n cryptographically random bytes. It is the
// random_bytes(n) primitive spec.md's primitives table calls out.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
