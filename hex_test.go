package ethabi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexEncode(t *testing.T) {
	assert.Equal(t, "0x", HexEncode(nil))
	assert.Equal(t, "0x00ff10", HexEncode([]byte{0, 0xff, 0x10}))
	assert.Equal(t, 8, HexEncodedLen(3))
}

func TestHexDecode(t *testing.T) {
	out, err := HexDecode("0x00ff10")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xff, 0x10}, out)

	out, err = HexDecode("00FF10")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0xff, 0x10}, out)

	out, err = HexDecode("0X")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = HexDecode("0x123")
	require.Error(t, err)

	_, err = HexDecode("0xzz")
	require.Error(t, err)

	assert.Panics(t, func() { MustHexDecode("0x1") })
}

func TestHexDecodeTo(t *testing.T) {
	var out [2]byte
	require.NoError(t, HexDecodeTo(out[:], "0xabcd"))
	assert.Equal(t, [2]byte{0xab, 0xcd}, out)

	require.Error(t, HexDecodeTo(out[:], "0xab"))
	require.Error(t, HexDecodeTo(out[:], "0xabcdef"))
	require.Error(t, HexDecodeTo(out[:], "0xabcx"))
}

func TestAddressText(t *testing.T) {
	addr, err := ParseAddress("0x" + testAddressHex)
	require.NoError(t, err)
	assert.Equal(t, "0x"+testAddressHex, addr.String())

	encoded, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x`+testAddressHex+`"`, string(encoded))

	var decoded Address
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, addr, decoded)

	_, err = ParseAddress("0x1234")
	require.Error(t, err)
	assert.Panics(t, func() { MustParseAddress("nope") })
}

func TestSelectorText(t *testing.T) {
	sel := MustParseSelector("0xc6888fa1")
	assert.Equal(t, "0xc6888fa1", sel.String())

	encoded, err := json.Marshal(sel)
	require.NoError(t, err)
	assert.Equal(t, `"0xc6888fa1"`, string(encoded))

	encoded, err = json.Marshal(ZeroSelector)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(encoded))

	var decoded Selector
	require.NoError(t, decoded.UnmarshalText([]byte("a9059cbb")))
	assert.Equal(t, SelectorOf("transfer(address,uint256)"), decoded)

	_, err = ParseSelector("c6888f")
	require.Error(t, err)
}

func TestWordAndBytesText(t *testing.T) {
	var word Word
	require.NoError(t, word.UnmarshalText([]byte(leftWord("2c0"))))
	assert.Equal(t, "0x"+leftWord("2c0"), word.String())

	text, err := word.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0x"+leftWord("2c0"), string(text))

	var data HexBytes
	require.NoError(t, json.Unmarshal([]byte(`"0xcafe"`), &data))
	assert.Equal(t, HexBytes{0xca, 0xfe}, data)
	assert.Equal(t, "0xcafe", data.String())
}
