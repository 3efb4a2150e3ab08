package ethabi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

/*
Encodes the input as lowercase hex prefixed with "0x". This is the wire format
for call data and return data. Empty input encodes as "0x".
*/
func HexEncode(input []byte) string {
	out := make([]byte, HexEncodedLen(len(input)))
	out[0] = '0'
	out[1] = 'x'
	hex.Encode(out[2:], input)
	return bytesToMutableString(out)
}

/*
Decodes hex input. The "0x" prefix is optional; either case is accepted. Empty
input, or a bare "0x", decodes to an empty slice.
*/
func HexDecode(input string) ([]byte, error) {
	raw := drop0x(input)
	if len(raw)%2 != 0 {
		return nil, errors.Errorf(`malformed hex input: odd length %v`, len(raw))
	}
	out := make([]byte, len(raw)/2)
	_, err := hex.Decode(out, stringToBytesUnsafe(raw))
	if err != nil {
		return nil, errors.Wrap(err, `malformed hex input`)
	}
	return out, nil
}

// Version of "HexDecode" that panics on error. Convenient for initializing
// global variables and test fixtures.
func MustHexDecode(input string) []byte {
	out, err := HexDecode(input)
	if err != nil {
		panic(err)
	}
	return out
}

/*
Decodes hex input into the output, which must have exactly the decoded size.
The "0x" prefix is optional.
*/
func HexDecodeTo(output []byte, input string) error {
	raw := drop0x(input)
	if len(raw) != len(output)*2 {
		return errors.Errorf(`hex input %q has %d bytes, want %d`, input, len(raw)/2, len(output))
	}
	_, err := hex.Decode(output, stringToBytesUnsafe(raw))
	return errors.Wrap(err, `malformed hex input`)
}

func drop0x(input string) string {
	if len(input) >= 2 && input[0] == '0' && (input[1] == 'x' || input[1] == 'X') {
		return input[2:]
	}
	return input
}

/*
Similar to "hex.EncodedLen" from "encoding/hex". Takes an unencoded byte count
and returns how many bytes are needed to hex-encode it with the "0x" prefix.
Namely, it returns "(len * 2) + 2".
*/
func HexEncodedLen(len int) int {
	return (len * 2) + 2
}
