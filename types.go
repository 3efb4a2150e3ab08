package ethabi

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var null = []byte{'n', 'u', 'l', 'l'}

// Version of "[]byte" that uses "0x"-prefixed hex encoding and decoding.
// Accepted wherever the ABI expects "bytes".
type HexBytes []byte

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self HexBytes) MarshalText() ([]byte, error) {
	return stringToBytesUnsafe(HexEncode(self)), nil
}

// Implements "encoding.TextUnmarshaler". The "0x" prefix is optional.
func (self *HexBytes) UnmarshalText(input []byte) error {
	out, err := HexDecode(string(input))
	if err != nil {
		return err
	}
	*self = HexBytes(out)
	return nil
}

// Implements "fmt.Stringer". Follows the same rules as "MarshalText".
func (self HexBytes) String() string { return HexEncode(self) }

/*
Compact representation of an Ethereum address: a 160-bit unsigned integer,
ABI-encoded as a word left-padded with zeros. Uses hex encoding with the "0x"
prefix.
*/
type Address [20]byte

// Decodes the provided hex string. The "0x" prefix is optional.
func ParseAddress(input string) (Address, error) {
	var out Address
	err := HexDecodeTo(out[:], input)
	return out, err
}

// Version of "ParseAddress" that panics on error. Convenient for initializing
// global variables.
func MustParseAddress(input string) Address {
	out, err := ParseAddress(input)
	if err != nil {
		panic(err)
	}
	return out
}

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self Address) MarshalText() ([]byte, error) {
	return stringToBytesUnsafe(HexEncode(self[:])), nil
}

// Implements "encoding.TextUnmarshaler". The "0x" prefix is optional.
func (self *Address) UnmarshalText(input []byte) error {
	return HexDecodeTo(self[:], string(input))
}

// Implements "fmt.Stringer".
func (self Address) String() string { return HexEncode(self[:]) }

// Converts into a Word, zero-padded on the left. Same as its ABI encoding.
func (self Address) Word() Word {
	var out Word
	copy(out[len(out)-len(self):], self[:])
	return out
}

/*
A Word is the unit of ABI encoding: 32 bytes of arbitrary content. Every value
in the head or tail of an encoding occupies a whole number of words.
*/
type Word [32]byte

const wordSize = len(Word{})

// Implements "fmt.Stringer". Uses hex encoding prefixed with "0x".
func (self Word) String() string { return HexEncode(self[:]) }

// Implements "encoding.TextMarshaler". Uses hex encoding prefixed with "0x".
func (self Word) MarshalText() ([]byte, error) {
	return stringToBytesUnsafe(HexEncode(self[:])), nil
}

// Implements "encoding.TextUnmarshaler". The "0x" prefix is optional.
func (self *Word) UnmarshalText(input []byte) error {
	return HexDecodeTo(self[:], string(input))
}

/*
Identifies the function being called: the first 4 bytes of call data.
Conventionally, the first 4 bytes of the legacy Keccak-256 hash of the
function's canonical signature; see "SelectorOf".

A zero-initialized Selector JSON-encodes as "null".
*/
type Selector [4]byte

// Decodes a selector from 8 hex digits, such as "c6888fa1". The "0x" prefix is
// optional.
func ParseSelector(input string) (Selector, error) {
	var out Selector
	err := HexDecodeTo(out[:], input)
	return out, err
}

// Version of "ParseSelector" that panics on error. Convenient for initializing
// global variables.
func MustParseSelector(input string) Selector {
	out, err := ParseSelector(input)
	if err != nil {
		panic(err)
	}
	return out
}

/*
Computes a selector from a canonical function signature such as
"transfer(address,uint256)". Uses the legacy Keccak-256 (not the standardized
SHA-3).
*/
func SelectorOf(signature string) Selector {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(stringToBytesUnsafe(signature))
	sum := hash.Sum(nil)
	return Selector{sum[0], sum[1], sum[2], sum[3]}
}

// Implements "fmt.Stringer". Uses hex encoding prefixed with "0x".
func (self Selector) String() string { return HexEncode(self[:]) }

// Implements "encoding.TextUnmarshaler". The "0x" prefix is optional.
func (self *Selector) UnmarshalText(input []byte) error {
	return HexDecodeTo(self[:], string(input))
}

/*
Implements "json.Marshaler". A zero-initialized value encodes as "null".
Otherwise, it encodes as a hex string, prefixed with "0x".
*/
func (self Selector) MarshalJSON() ([]byte, error) {
	if self == ZeroSelector {
		return null, nil
	}
	return []byte(`"` + HexEncode(self[:]) + `"`), nil
}

// Splits call data into its selector and parameter encoding.
func splitSelector(input []byte) (Selector, []byte, error) {
	var out Selector
	if len(input) < len(out) {
		return out, nil, errors.WithStack(lenMismatch("selector", 0, len(out), len(input)))
	}
	copy(out[:], input)
	return out, input[len(out):], nil
}
