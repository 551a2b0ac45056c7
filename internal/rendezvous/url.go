package rendezvous

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"devicelink/internal/crypto"
)

// PathIDHex generates the 32-byte, 64-hex-character rendezvous path
// identifier (spec.md §4.3 step 1).
func PathIDHex() (string, error) {
	b, err := crypto.RandomBytes(32)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// URL builds `wss://rendezvous-<prefix4>.<host>/<prefix8>/<rendezvousPath>`
// from the 64-hex-char rendezvous path and a host suffix (spec.md §6).
func URL(host, rendezvousPathHex string) string {
	prefix4 := rendezvousPathHex[:4]
	prefix8 := rendezvousPathHex[:8]
	return fmt.Sprintf("wss://rendezvous-%s.%s/%s/%s", prefix4, host, prefix8, rendezvousPathHex)
}

// JoinURI builds the `threema://device-group/join#<urlsafeB64(offer)>` QR
// payload URI carrying a requestToJoin offer for the given AK and
// rendezvous path (spec.md §6). d2dProtocolVersion is fixed at 2 and the
// offer version at V1_0=0.
func JoinURI(ak []byte, rendezvousPathHex string, relayHost string) string {
	offer := encodeJoinOffer(ak, rendezvousPathHex, relayHost)
	return "threema://device-group/join#" + base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(offer)
}

// encodeJoinOffer builds a minimal, self-describing binary offer:
// version(1) || pathId(1, fixed=1) || d2dProtocolVersion(1, fixed=2) ||
// akLen(1) || ak || hostLen(1) || host || pathHexLen(1) || pathHex.
// The exact offer schema is an external, opaque contract from the core's
// point of view; only ak and the rendezvous path need to survive the
// round trip for this device to reconnect.
func encodeJoinOffer(ak []byte, rendezvousPathHex, relayHost string) []byte {
	out := []byte{0x00, 0x01, 0x02}
	out = append(out, byte(len(ak)))
	out = append(out, ak...)
	out = append(out, byte(len(relayHost)))
	out = append(out, []byte(relayHost)...)
	out = append(out, byte(len(rendezvousPathHex)))
	out = append(out, []byte(rendezvousPathHex)...)
	return out
}

// DecodeJoinOffer is the inverse of encodeJoinOffer, used by the joining
// device after scanning the QR code.
func DecodeJoinOffer(b []byte) (ak []byte, relayHost, rendezvousPathHex string, err error) {
	if len(b) < 4 {
		return nil, "", "", fmt.Errorf("join offer: truncated header")
	}
	off := 3
	akLen := int(b[off])
	off++
	if len(b) < off+akLen+1 {
		return nil, "", "", fmt.Errorf("join offer: truncated ak")
	}
	ak = append([]byte(nil), b[off:off+akLen]...)
	off += akLen

	hostLen := int(b[off])
	off++
	if len(b) < off+hostLen+1 {
		return nil, "", "", fmt.Errorf("join offer: truncated host")
	}
	relayHost = string(b[off : off+hostLen])
	off += hostLen

	pathLen := int(b[off])
	off++
	if len(b) < off+pathLen {
		return nil, "", "", fmt.Errorf("join offer: truncated path")
	}
	rendezvousPathHex = string(b[off : off+pathLen])
	return ak, relayHost, rendezvousPathHex, nil
}
