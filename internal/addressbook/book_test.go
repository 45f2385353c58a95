package addressbook

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "fastAccum-97", Key("fastAccum", 97))
	assert.Equal(t, "deaccum-80001", Key("deaccum", 80001))
}

func TestBook_Set(t *testing.T) {
	book := New()
	socket := common.HexToAddress("0x01")

	require.NoError(t, book.Set("socket", socket))
	require.NoError(t, book.Set("notary", common.HexToAddress("0x02")))

	err := book.Set("socket", common.HexToAddress("0x03"))
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := book.Get("socket")
	require.NoError(t, err)
	assert.Equal(t, socket, got)

	assert.Equal(t, 2, book.Len())
	assert.Equal(t, []string{"socket", "notary"}, book.Roles())

	_, err = book.Get("vault")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, book.Set("", socket))
}

func TestBook_MapRoundTrip(t *testing.T) {
	socket := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	book := New()
	require.NoError(t, book.Set("socket", socket))

	entries := book.Map()
	assert.Equal(t, map[string]string{"socket": socket.Hex()}, entries)

	restored, err := FromMap(entries)
	require.NoError(t, err)
	assert.Equal(t, book.Map(), restored.Map())

	_, err = FromMap(map[string]string{"socket": "nope"})
	assert.ErrorContains(t, err, "is not a valid address")
}
