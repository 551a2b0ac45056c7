package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"devicelink/internal/domain/types"
)

func TestParseGroupAddress(t *testing.T) {
	addr, err := parseGroupAddress("ABCD1234:42")
	require.NoError(t, err)
	require.Equal(t, types.GroupAddress{CreatorIdentity: "ABCD1234", GroupID: 42}, addr)
}

func TestParseGroupAddressRejectsMissingSeparator(t *testing.T) {
	_, err := parseGroupAddress("ABCD1234")
	require.Error(t, err)
}

func TestParseGroupAddressRejectsNonNumericID(t *testing.T) {
	_, err := parseGroupAddress("ABCD1234:notanumber")
	require.Error(t, err)
}

func TestParseMessageID(t *testing.T) {
	id, err := parseMessageID("18446744073709551615")
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), id)
}

func TestParseMessageIDRejectsNonNumeric(t *testing.T) {
	_, err := parseMessageID("nope")
	require.Error(t, err)
}
