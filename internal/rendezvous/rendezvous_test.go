package rendezvous

import (
	"testing"

	"devicelink/internal/crypto"
	"devicelink/internal/domain/types"
)

// scriptedResponder plays the non-initiator side of the handshake using
// the same key derivations, so the test can drive Session through all
// four phases without a real relay.
type scriptedResponder struct {
	ak           []byte
	challenge    [16]byte
	ephSecret    types.X25519Private
	ephPublic    types.X25519Public
	encodeCipher *pathCipher // rrd* — responder encodes with rrd keys
	decodeCipher *pathCipher // rid* — responder decodes with rid keys
}

func newScriptedResponder(ak []byte) (*scriptedResponder, error) {
	ridak, err := crypto.KDF(ak, "rida", rendezvousPersonal, nil, 32)
	if err != nil {
		return nil, err
	}
	rrdak, err := crypto.KDF(ak, "rrda", rendezvousPersonal, nil, 32)
	if err != nil {
		return nil, err
	}
	ephSecret, ephPublic, err := crypto.GenerateX25519()
	if err != nil {
		return nil, err
	}
	challengeBytes, err := crypto.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	var challenge [16]byte
	copy(challenge[:], challengeBytes)

	return &scriptedResponder{
		ak:           ak,
		challenge:    challenge,
		ephSecret:    ephSecret,
		ephPublic:    ephPublic,
		encodeCipher: newPathCipher(types.MustSymmetricKey(rrdak)),
		decodeCipher: newPathCipher(types.MustSymmetricKey(ridak)),
	}, nil
}

func (r *scriptedResponder) hello() ([]byte, error) {
	plaintext := make([]byte, 48)
	copy(plaintext[:16], r.challenge[:])
	copy(plaintext[16:], r.ephPublic.Slice())
	return r.encodeCipher.seal(plaintext)
}

func TestRendezvousHandshakeFullRoundTrip(t *testing.T) {
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	responder, err := newScriptedResponder(sess.ak)
	if err != nil {
		t.Fatalf("newScriptedResponder: %v", err)
	}

	helloFrame, err := responder.hello()
	if err != nil {
		t.Fatalf("responder.hello: %v", err)
	}
	authHelloFrame, err := sess.HandleHello(helloFrame)
	if err != nil {
		t.Fatalf("HandleHello: %v", err)
	}
	if sess.Phase != AwaitingAuth {
		t.Fatalf("phase = %v, want AwaitingAuth", sess.Phase)
	}

	authHelloPlain, err := responder.decodeCipher.open(authHelloFrame)
	if err != nil {
		t.Fatalf("responder decode auth-hello: %v", err)
	}
	if len(authHelloPlain) != 64 {
		t.Fatalf("auth-hello len = %d, want 64", len(authHelloPlain))
	}
	if string(authHelloPlain[:16]) != string(responder.challenge[:]) {
		t.Fatal("auth-hello did not echo responder challenge")
	}
	peerChallenge := authHelloPlain[16:32]

	sharedEtk := crypto.Precompute(responder.ephSecret, sess.ourEphPublic)
	stk, err := crypto.KDF(append(append([]byte{}, sess.ak...), sharedEtk.Slice()...), "st", rendezvousPersonal, nil, 32)
	if err != nil {
		t.Fatalf("stk: %v", err)
	}
	ridtk, err := crypto.KDF(stk, "ridt", rendezvousPersonal, nil, 32)
	if err != nil {
		t.Fatalf("ridtk: %v", err)
	}
	rrdtk, err := crypto.KDF(stk, "rrdt", rendezvousPersonal, nil, 32)
	if err != nil {
		t.Fatalf("rrdtk: %v", err)
	}

	authResponseFrame, err := responder.encodeCipher.seal(peerChallenge)
	if err != nil {
		t.Fatalf("responder seal auth response: %v", err)
	}
	if err := sess.HandleAuth(authResponseFrame); err != nil {
		t.Fatalf("HandleAuth: %v", err)
	}
	if sess.Phase != AwaitingNominate {
		t.Fatalf("phase = %v, want AwaitingNominate", sess.Phase)
	}

	// Like the session, the responder swaps to transport keys while keeping
	// its running sequence counters.
	responder.encodeCipher.key = types.MustSymmetricKey(rrdtk)
	responder.decodeCipher.key = types.MustSymmetricKey(ridtk)

	nominateFrame, err := responder.encodeCipher.seal([]byte("nominate"))
	if err != nil {
		t.Fatalf("responder seal nominate: %v", err)
	}
	if err := sess.HandleNominate(nominateFrame); err != nil {
		t.Fatalf("HandleNominate: %v", err)
	}
	if sess.Phase != Nominated {
		t.Fatalf("phase = %v, want Nominated", sess.Phase)
	}

	userFrame, err := sess.Encrypt([]byte("essential-data-payload"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := responder.decodeCipher.open(userFrame)
	if err != nil {
		t.Fatalf("responder decrypt user payload: %v", err)
	}
	if string(got) != "essential-data-payload" {
		t.Fatalf("got %q", got)
	}
}

func TestPathIDHexLength(t *testing.T) {
	h, err := PathIDHex()
	if err != nil {
		t.Fatalf("PathIDHex: %v", err)
	}
	if len(h) != 64 {
		t.Fatalf("len = %d, want 64", len(h))
	}
}

func TestJoinURIRoundTrip(t *testing.T) {
	ak, err := crypto.RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	pathHex, err := PathIDHex()
	if err != nil {
		t.Fatalf("PathIDHex: %v", err)
	}

	offer := encodeJoinOffer(ak, pathHex, "example.test")
	gotAK, gotHost, gotPath, err := DecodeJoinOffer(offer)
	if err != nil {
		t.Fatalf("DecodeJoinOffer: %v", err)
	}
	if string(gotAK) != string(ak) || gotHost != "example.test" || gotPath != pathHex {
		t.Fatalf("round trip mismatch: host=%q path=%q", gotHost, gotPath)
	}

	uri := JoinURI(ak, pathHex, "example.test")
	if len(uri) < len("threema://device-group/join#") {
		t.Fatalf("uri too short: %q", uri)
	}
}
