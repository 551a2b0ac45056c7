package rendezvous

import (
	"devicelink/internal/crypto"
	"devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
)

// Phase is the initiator-role rendezvous state machine of spec.md §4.3.
type Phase int

const (
	AwaitingHello Phase = iota
	AwaitingAuth
	AwaitingNominate
	Nominated
	Closed
)

const rendezvousPersonal = "3ma-rendezvous"

// hello is the decoded peer hello: a 16-byte challenge and a 32-byte
// ephemeral X25519 public key.
type hello struct {
	Challenge  [16]byte
	Ephemeral  types.X25519Public
}

func decodeHello(b []byte) (hello, error) {
	if len(b) != 48 {
		return hello{}, errors.ErrMalformedFrame
	}
	var h hello
	copy(h.Challenge[:], b[:16])
	h.Ephemeral = types.MustX25519Public(b[16:48])
	return h, nil
}

// Session runs the initiator side of the rendezvous handshake over a
// single pathId=1 relay channel. encodeCipher seals our outbound frames
// (keyed "rid*"); decodeCipher opens inbound frames (keyed "rrd*"). Both
// start on the auth keys and are atomically replaced by the transport
// keys on a successful AwaitingAuth transition, preserving their running
// sequence counters.
type Session struct {
	Phase Phase

	ak []byte

	ourChallenge  [16]byte
	ourEphSecret  types.X25519Private
	ourEphPublic  types.X25519Public
	peerChallenge [16]byte

	encodeCipher *pathCipher
	decodeCipher *pathCipher

	pendingTransportEncode types.SymmetricKey
	pendingTransportDecode types.SymmetricKey

	rph [32]byte
}

// NewSession derives the auth-phase keys from a freshly generated 32-byte
// Authentication Key and prepares the initiator's own ephemeral keys and
// challenge, ready to receive the peer's hello.
func NewSession() (*Session, error) {
	ak, err := crypto.RandomBytes(32)
	if err != nil {
		return nil, err
	}
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

	return &Session{
		Phase:        AwaitingHello,
		ak:           ak,
		ourChallenge: challenge,
		ourEphSecret: ephSecret,
		ourEphPublic: ephPublic,
		encodeCipher: newPathCipher(types.MustSymmetricKey(ridak)),
		decodeCipher: newPathCipher(types.MustSymmetricKey(rrdak)),
	}, nil
}

// HandleHello processes the peer's hello frame and returns our auth-hello
// reply frame, moving the session to AwaitingAuth.
func (s *Session) HandleHello(frame []byte) (reply []byte, err error) {
	if s.Phase != AwaitingHello {
		return nil, errors.ErrUnexpectedFrame
	}
	plaintext, err := s.decodeCipher.open(frame)
	if err != nil {
		return nil, err
	}
	h, err := decodeHello(plaintext)
	if err != nil {
		return nil, err
	}
	s.peerChallenge = h.Challenge

	sharedEtk := crypto.Precompute(s.ourEphSecret, h.Ephemeral)

	stk, err := crypto.KDF(append(append([]byte{}, s.ak...), sharedEtk.Slice()...), "st", rendezvousPersonal, nil, 32)
	if err != nil {
		return nil, err
	}
	ridtk, err := crypto.KDF(stk, "ridt", rendezvousPersonal, nil, 32)
	if err != nil {
		return nil, err
	}
	rrdtk, err := crypto.KDF(stk, "rrdt", rendezvousPersonal, nil, 32)
	if err != nil {
		return nil, err
	}
	rph, err := crypto.KDF(nil, "ph", rendezvousPersonal, stk, 32)
	if err != nil {
		return nil, err
	}
	copy(s.rph[:], rph)

	s.pendingTransportEncode = types.MustSymmetricKey(ridtk)
	s.pendingTransportDecode = types.MustSymmetricKey(rrdtk)

	authHello := make([]byte, 64)
	copy(authHello[0:16], h.Challenge[:])
	copy(authHello[16:32], s.ourChallenge[:])
	copy(authHello[32:64], s.ourEphPublic.Slice())

	reply, err = s.encodeCipher.seal(authHello)
	if err != nil {
		return nil, err
	}
	s.Phase = AwaitingAuth
	return reply, nil
}

// HandleAuth processes the peer's auth response, verifying it echoes our
// challenge, and on success swaps both ciphers from auth keys to
// transport keys while preserving their sequence counters.
func (s *Session) HandleAuth(frame []byte) error {
	if s.Phase != AwaitingAuth {
		return errors.ErrUnexpectedFrame
	}
	plaintext, err := s.decodeCipher.open(frame)
	if err != nil {
		return err
	}
	if len(plaintext) != 16 || string(plaintext) != string(s.ourChallenge[:]) {
		return errors.ErrCookieCollision
	}

	s.encodeCipher.key = s.pendingTransportEncode
	s.decodeCipher.key = s.pendingTransportDecode
	s.Phase = AwaitingNominate
	return nil
}

// HandleNominate decrypts the nominate frame; a successful decode is
// itself the promotion to the Nominated data phase.
func (s *Session) HandleNominate(frame []byte) error {
	if s.Phase != AwaitingNominate {
		return errors.ErrUnexpectedFrame
	}
	if _, err := s.decodeCipher.open(frame); err != nil {
		return err
	}
	s.Phase = Nominated
	return nil
}

// Encrypt/Decrypt operate only in the Nominated phase, sealing/opening
// user-level device-join payloads with the transport keys.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	if s.Phase != Nominated {
		return nil, errors.ErrUnexpectedFrame
	}
	return s.encodeCipher.seal(plaintext)
}

func (s *Session) Decrypt(ciphertext []byte) ([]byte, error) {
	if s.Phase != Nominated {
		return nil, errors.ErrUnexpectedFrame
	}
	return s.decodeCipher.open(ciphertext)
}

// VerificationSymbol returns rph, the 32-byte hash presented to the user
// for out-of-band confirmation.
func (s *Session) VerificationSymbol() [32]byte { return s.rph }

// AK returns the session's Authentication Key, needed by the caller to
// build the QR join-offer payload (spec.md §6) that carries it to the
// scanning device.
func (s *Session) AK() []byte { return s.ak }
