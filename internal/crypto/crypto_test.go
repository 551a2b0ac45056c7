package crypto

import (
	"bytes"
	"testing"

	"devicelink/internal/domain/types"
)

func TestPrecomputeIsSymmetric(t *testing.T) {
	aPriv, aPub, err := GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519(a): %v", err)
	}
	bPriv, bPub, err := GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519(b): %v", err)
	}

	left := Precompute(aPriv, bPub)
	right := Precompute(bPriv, aPub)
	if left != right {
		t.Fatalf("precompute not symmetric: %x != %x", left, right)
	}
}

func TestX25519BaseMatchesGeneratedPublic(t *testing.T) {
	priv, pub, err := GenerateX25519()
	if err != nil {
		t.Fatalf("GenerateX25519: %v", err)
	}
	if got := X25519Base(priv); got != pub {
		t.Fatalf("X25519Base(priv) = %x, want %x", got, pub)
	}
}

func TestSecretboxRoundTrip(t *testing.T) {
	key := types.MustSymmetricKey(bytes.Repeat([]byte{0x11}, 32))
	var nonce [24]byte
	copy(nonce[:], bytes.Repeat([]byte{0x22}, 24))

	ct := SecretboxSeal(key, nonce, []byte("hello device group"))
	pt, err := SecretboxOpen(key, nonce, ct)
	if err != nil {
		t.Fatalf("SecretboxOpen: %v", err)
	}
	if string(pt) != "hello device group" {
		t.Fatalf("round trip mismatch: %q", pt)
	}

	ct[0] ^= 0xff
	if _, err := SecretboxOpen(key, nonce, ct); err == nil {
		t.Fatal("expected authentication failure on tampered ciphertext")
	}
}

func TestChaChaRoundTrip(t *testing.T) {
	key := types.MustSymmetricKey(bytes.Repeat([]byte{0x33}, 32))
	nonce := bytes.Repeat([]byte{0x44}, 12)
	aad := []byte("frame-header")

	ct, err := ChaChaSeal(key, nonce, []byte("payload"), aad)
	if err != nil {
		t.Fatalf("ChaChaSeal: %v", err)
	}
	pt, err := ChaChaOpen(key, nonce, ct, aad)
	if err != nil {
		t.Fatalf("ChaChaOpen: %v", err)
	}
	if string(pt) != "payload" {
		t.Fatalf("round trip mismatch: %q", pt)
	}

	if _, err := ChaChaOpen(key, nonce, ct, []byte("wrong-aad")); err == nil {
		t.Fatal("expected authentication failure on wrong aad")
	}
}

func TestDeriveDeviceGroupKeysDeterministic(t *testing.T) {
	ikm := types.MustSymmetricKey(bytes.Repeat([]byte{0x55}, 32))

	a, err := DeriveDeviceGroupKeys(ikm)
	if err != nil {
		t.Fatalf("DeriveDeviceGroupKeys: %v", err)
	}
	b, err := DeriveDeviceGroupKeys(ikm)
	if err != nil {
		t.Fatalf("DeriveDeviceGroupKeys: %v", err)
	}
	if a != b {
		t.Fatal("expected deterministic key schedule for identical input keying material")
	}

	distinct := map[types.SymmetricKey]bool{
		a.DGRK:   true,
		a.DGDIK:  true,
		a.DGSDDK: true,
		a.DGTSK:  true,
	}
	if len(distinct) != 4 {
		t.Fatal("expected DGRK, DGDIK, DGSDDK and DGTSK to be pairwise distinct")
	}
}

func TestDeriveMetadataKeyDiffersFromSharedKey(t *testing.T) {
	shared := types.MustSymmetricKey(bytes.Repeat([]byte{0x66}, 32))

	metadata, err := DeriveMetadataKey(shared)
	if err != nil {
		t.Fatalf("DeriveMetadataKey: %v", err)
	}
	if shared == metadata {
		t.Fatal("metadata key must not collide with the raw shared key")
	}
}

func TestKDFDeterministicAndSaltSensitive(t *testing.T) {
	key := bytes.Repeat([]byte{0x77}, 32)

	a, err := KDF(key, "p", "3ma-mdev", nil, 32)
	if err != nil {
		t.Fatalf("KDF: %v", err)
	}
	b, err := KDF(key, "p", "3ma-mdev", nil, 32)
	if err != nil {
		t.Fatalf("KDF: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("expected KDF to be deterministic for identical inputs")
	}

	c, err := KDF(key, "r", "3ma-mdev", nil, 32)
	if err != nil {
		t.Fatalf("KDF: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatal("expected different salts to produce different output")
	}
}

func TestRandomBytesLength(t *testing.T) {
	b, err := RandomBytes(40)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	if len(b) != 40 {
		t.Fatalf("len = %d, want 40", len(b))
	}
}
