package ethabi

import (
	"fmt"
)

/*
Returned by "ParseType" when a type name is not one of the supported ABI types.
The type set is closed: bool, address, string, bytes, bytes1..bytes32,
int8..int256, uint8..uint256, and arrays of those.
*/
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

// Implements "error".
func (self UnsupportedTypeError) Error() string {
	if self.Reason == "" {
		return fmt.Sprintf(`unsupported ABI type %q`, self.Type)
	}
	return fmt.Sprintf(`unsupported ABI type %q: %v`, self.Type, self.Reason)
}

// Returned when an integer doesn't fit the declared width. Values are never
// truncated.
type OverflowError struct {
	Type  string
	Value string
}

// Implements "error".
func (self OverflowError) Error() string {
	return fmt.Sprintf(`%v overflows %v`, self.Value, self.Type)
}

/*
Returned when a value collection doesn't match the declared length of a
fixed-size type: "T[N]" arrays and "bytesN". "Want" is the fixed length and
"Got" the length of the collection. When encoding, the fixed length is the ABI
type's; when assigning decoded values, it's the length of the Go array being
filled.
*/
type ArityMismatchError struct {
	Type string
	Want int
	Got  int
}

// Implements "error".
func (self ArityMismatchError) Error() string {
	return fmt.Sprintf(`arity mismatch for %v: expected %v elements, got %v`, self.Type, self.Want, self.Got)
}

/*
Returned when the number of parameters doesn't match the number of values
provided for encoding, or the head slots available in a buffer being decoded.
*/
type FieldCountMismatchError struct {
	Want int
	Got  int
}

// Implements "error".
func (self FieldCountMismatchError) Error() string {
	return fmt.Sprintf(`field count mismatch: expected %v, got %v`, self.Want, self.Got)
}

/*
Returned for malformed input during decoding: an offset or length pointing
outside the buffer, or a word with non-canonical padding.
*/
type DecodeRangeError struct {
	Type   string
	Offset int
	Reason string
}

// Implements "error".
func (self DecodeRangeError) Error() string {
	return fmt.Sprintf(`malformed %v at offset %v: %v`, self.Type, self.Offset, self.Reason)
}

// Returned by "ResolveParams" when two parameters claim the same position.
type DuplicateOrdinalError struct {
	Ordinal int
	Names   [2]string
}

// Implements "error".
func (self DuplicateOrdinalError) Error() string {
	return fmt.Sprintf(`parameters %q and %q both claim position %v`, self.Names[0], self.Names[1], self.Ordinal)
}

func lenMismatch(typ string, offset, expected, actual int) DecodeRangeError {
	return DecodeRangeError{
		Type:   typ,
		Offset: offset,
		Reason: fmt.Sprintf(`expected at least %v bytes, got %v`, expected, actual),
	}
}
