package ethabi

import (
	"unsafe"
)

// Zero-initialized arrays for equality comparisons.
var (
	ZeroAddress  Address
	ZeroWord     Word
	ZeroSelector Selector
)

/*
Reinterprets a byte slice as a string, saving an allocation. The bytes must not
be modified afterwards.
*/
func bytesToMutableString(bytes []byte) string {
	return unsafe.String(unsafe.SliceData(bytes), len(bytes))
}

/*
Returns a byte slice backed by the provided string. Mutations are reflected in
the source string, unless it's backed by constant storage, in which case they
trigger a segfault. Should be safe as long as the bytes are treated as
read-only.
*/
func stringToBytesUnsafe(str string) []byte {
	return unsafe.Slice(unsafe.StringData(str), len(str))
}
