package ethabi

import (
	"math/big"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// Hex of a word holding the given hex digits, left-padded with zeros.
func leftWord(digits string) string {
	return strings.Repeat("0", wordSize*2-len(digits)) + digits
}

// Hex of a word holding the given hex digits, right-padded with zeros.
func rightWord(digits string) string {
	return digits + strings.Repeat("0", wordSize*2-len(digits))
}

func encodeHex(t testing.TB, typ string, input interface{}) string {
	t.Helper()
	out, err := Encode(MustParseType(typ), input)
	require.NoError(t, err, `failed to encode %v as %q`, spew.Sdump(input), typ)
	return strings.TrimPrefix(HexEncode(out), "0x")
}

func encodeArgsHex(t testing.TB, types []*Type, args ...interface{}) string {
	t.Helper()
	out, err := EncodeArgs(types, args...)
	require.NoError(t, err, `failed to encode %v`, spew.Sdump(args))
	return strings.TrimPrefix(HexEncode(out), "0x")
}

/*
Replaces every *big.Int in a decoded value with its decimal string, so that
decoded values can be compared with plain equality. Equal big.Int values don't
always have equal internal representations.
*/
func normalize(val interface{}) interface{} {
	switch val := val.(type) {
	case *big.Int:
		return val.String()
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	default:
		return val
	}
}

func bigInt(input string) *big.Int {
	out, ok := new(big.Int).SetString(input, 0)
	if !ok {
		panic("malformed big integer " + input)
	}
	return out
}
