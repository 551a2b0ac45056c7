package csp

import (
	"context"
	"encoding/binary"

	"devicelink/internal/crypto"
	dterrors "devicelink/internal/domain/errors"
	"devicelink/internal/domain/types"
	"devicelink/internal/log"
	"devicelink/internal/wire"
)

var logger = log.New("csp")

// LoginParams carries the identity material needed to vouch for account
// ownership during login (spec.md §4.6 step 5).
type LoginParams struct {
	Identity     string
	ClientKey    types.X25519Private // long-term identity secret, not the ephemeral tck
	DeviceID     uint64
	DeviceCookie [16]byte
	ClientInfo   string

	// ServerStaticPublic overrides crypto.ChatServerKey. Zero value means
	// "use the real chat server key"; tests substitute a locally
	// generated pair since the real key's secret half is never known.
	ServerStaticPublic types.X25519Public
}

const extensionTypeClientInfo = 0x01
const extensionTypeDeviceID = 0x02
const extensionTypePayloadVersion = 0x03
const extensionTypeDeviceCookie = 0x04

// Handshake runs the full CSP login sequence over conn and returns the
// resulting session state, phase Ready. The login exchange leaves clientSeq
// and serverSeq at 3; the single UnblockIncomingMessages frame sent after
// it then consumes client sequence 3, so the returned state has ClientSeq 4
// and ServerSeq 3.
func Handshake(ctx context.Context, conn *Conn, params LoginParams) (*types.CSPState, error) {
	tckSecret, tckPublic, err := crypto.GenerateX25519()
	if err != nil {
		return nil, err
	}
	cckBytes, err := crypto.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	var cck [16]byte
	copy(cck[:], cckBytes)

	clientHello := make([]byte, 48)
	copy(clientHello[:32], tckPublic.Slice())
	copy(clientHello[32:], cck[:])
	if err := conn.WriteRaw(ctx, clientHello); err != nil {
		return nil, err
	}

	resp, err := conn.ReadExactly(ctx, 80)
	if err != nil {
		return nil, err
	}
	var sck [16]byte
	copy(sck[:], resp[:16])
	if sck == cck {
		return nil, dterrors.ErrCookieCollision
	}
	encryptedChallengeResponse := resp[16:80]

	serverStaticPublic := params.ServerStaticPublic
	if serverStaticPublic == (types.X25519Public{}) {
		serverStaticPublic = crypto.ChatServerKey
	}

	authKey := crypto.Precompute(tckSecret, serverStaticPublic)

	serverSeq := uint64(1)
	authPlain, err := crypto.SecretboxOpen(authKey, cookieSeqNonce(sck, serverSeq), encryptedChallengeResponse)
	if err != nil {
		return nil, err
	}
	if len(authPlain) != 48 {
		return nil, dterrors.ErrMalformedFrame
	}
	tskPublic := types.MustX25519Public(authPlain[:32])
	echoedCck := authPlain[32:48]
	if string(echoedCck) != string(cck[:]) {
		return nil, dterrors.ErrAuthenticationFailed
	}

	transportKey := crypto.Precompute(tckSecret, tskPublic)
	serverSeq = 2

	clientSeq := uint64(1)

	ss1 := crypto.Precompute(params.ClientKey, serverStaticPublic)
	ss2 := crypto.Precompute(params.ClientKey, tskPublic)
	vouchKeyBytes, err := crypto.KDF(append(append([]byte{}, ss1.Slice()...), ss2.Slice()...), "v2", "3ma-csp", nil, 32)
	if err != nil {
		return nil, err
	}
	vouchInput := append(append([]byte{}, sck[:]...), tckPublic.Slice()...)
	vouch, err := crypto.KDF(vouchKeyBytes, "v2", "3ma-csp", vouchInput, 32)
	if err != nil {
		return nil, err
	}

	loginDataPlain := make([]byte, 128)
	copy(loginDataPlain[0:8], identityBytes(params.Identity))
	copy(loginDataPlain[8:38], []byte(crypto.ExtensionMagic))
	binary.LittleEndian.PutUint16(loginDataPlain[38:40], uint16(extensionsLen(params)))
	copy(loginDataPlain[40:56], sck[:])
	copy(loginDataPlain[80:112], vouch)

	loginBox := crypto.SecretboxSeal(transportKey, cookieSeqNonce(cck, clientSeq), loginDataPlain)
	if err := conn.WriteRaw(ctx, loginBox); err != nil {
		return nil, err
	}
	clientSeq = 2

	extensions := encodeExtensions(params)
	extensionsBox := crypto.SecretboxSeal(transportKey, cookieSeqNonce(cck, clientSeq), extensions)
	if err := conn.WriteRaw(ctx, extensionsBox); err != nil {
		return nil, err
	}
	clientSeq = 3

	loginAckBox, err := conn.ReadExactly(ctx, 32)
	if err != nil {
		return nil, err
	}
	loginAckPlain, err := crypto.SecretboxOpen(transportKey, cookieSeqNonce(sck, serverSeq), loginAckBox)
	if err != nil {
		return nil, err
	}
	if len(loginAckPlain) != 16 {
		return nil, dterrors.ErrMalformedFrame
	}
	serverSeq = 3

	state := &types.CSPState{
		TCKSecret:        tckSecret,
		TCKPublic:        tckPublic,
		ClientCookie:     cck,
		ServerCookie:     sck,
		TempServerPublic: tskPublic,
		TransportKey:     transportKey,
		ClientSeq:        clientSeq,
		ServerSeq:        serverSeq,
		Phase:            types.CSPReady,
	}

	unblock := wire.EncodeCSPContainer(wire.CSPUnblockIncomingMessages, nil)
	sealed := crypto.SecretboxSeal(transportKey, cookieSeqNonce(cck, state.ClientSeq), unblock)
	state.ClientSeq++
	if err := conn.WriteFrame(ctx, sealed); err != nil {
		return nil, err
	}
	logger.Infof("csp session ready for identity %s", params.Identity)

	return state, nil
}

// cookieSeqNonce builds the steady-state nonce `cookie16 || seq:u64LE`.
func cookieSeqNonce(cookie [16]byte, seq uint64) [24]byte {
	var n [24]byte
	copy(n[:16], cookie[:])
	binary.LittleEndian.PutUint64(n[16:], seq)
	return n
}

func identityBytes(id string) []byte {
	var out [8]byte
	copy(out[:], id)
	return out[:]
}

func extensionsLen(p LoginParams) int {
	return len(encodeExtensions(p))
}

func encodeExtensions(p LoginParams) []byte {
	var out []byte
	out = appendExtension(out, extensionTypeClientInfo, []byte(p.ClientInfo))

	deviceID := make([]byte, 8)
	binary.LittleEndian.PutUint64(deviceID, p.DeviceID)
	out = appendExtension(out, extensionTypeDeviceID, deviceID)

	out = appendExtension(out, extensionTypePayloadVersion, []byte{1})
	out = appendExtension(out, extensionTypeDeviceCookie, p.DeviceCookie[:])
	return out
}

func appendExtension(out []byte, t byte, payload []byte) []byte {
	out = append(out, t)
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(payload)))
	out = append(out, lenBuf...)
	out = append(out, payload...)
	return out
}
