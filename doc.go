/*
Library for encoding and decoding values according to the Ethereum contract ABI:
function call data and return data. Compatible with the layout produced by
Solidity, go-ethereum and Parity.

Implements exactly the ABI type set: bool, intN and uintN (N = 8..256 in steps
of 8), address, bytesN (N = 1..32), bytes, string, fixed-size arrays "T[N]",
and dynamic arrays "T[]", nested arbitrarily. Tuples are supported only as
parameter lists.

Features:

	* type parsing with canonical names, static/dynamic classification and
	  static sizes

	* head/tail encoding and decoding of parameter lists

	* struct-tag-driven mapping between Go structs and parameter lists

	* function call encoding with selectors, return data decoding

	* hex encoding and decoding for call data, addresses, words, selectors

	* JSON ABI definitions

	* optional CLI tool for generating tagged Go structs from JSON ABI
	  definitions

Types

Parse a type once and reuse it; parsing is memoized:

	typ, err := ethabi.ParseType("uint[20]")

	typ.Canonical   // "uint256[20]"
	typ.IsDynamic() // false
	typ.FixedSize() // 640

Anything outside the ABI type set fails with "UnsupportedTypeError".

Encoding

Parameter lists are encoded in two parts. The head has one slot per parameter:
static values are inlined (a static fixed-size array occupies several
consecutive words), dynamic values are represented by the byte offset of their
payload, counted from the start of the head. The tail holds the dynamic payloads
in parameter order.

	types, err := ethabi.ParseTypes("string", "uint256[]")
	data, err := ethabi.EncodeArgs(types, "hello", []uint64{1, 2, 3})
	values, err := ethabi.DecodeArgs(types, data)

Decoded integers are *big.Int, addresses are Address, "bytes" and "bytesN" are
[]byte, "string" is string, arrays are []interface{}.

Decoding is strict about padding of scalar words: a bool other than 0 or 1, an
address or bytesN with non-zero padding, or an integer outside its declared
width fails with "DecodeRangeError". Padding after "bytes" and "string"
payloads is skipped without validation. Offsets and lengths are checked against
the input before use; malformed input never causes a panic or an out-of-range
read.

Functions

Describe the parameters with struct tags:

	type Multi struct {
		A string     `abi:"string"`
		B []*big.Int `abi:"uint[20],name=b,pos=2"`
		C string     `abi:"string,pos=3"`
	}

	var MultiFunc = ethabi.MustFunctionOf("test", ethabi.MustParseSelector("c6888fa1"), Multi{})

Encode a call, ready to be used as "data" for "eth_call" or a transaction:

	data, err := MultiFunc.EncodeRequest(Multi{A: "hello", B: nums, C: "world"})

Decode return data:

	out, err := ethabi.DecodeOutput[Multi](MultiFunc, returnData)

A zero selector is computed from the canonical signature using legacy
Keccak-256. Parameters can also be described by hand, with arbitrary accessors;
see "Param" and "NewFunction".

Errors

All errors carry stack traces via "github.com/pkg/errors"; print them with
"%+v". Use "errors.As" to test for "UnsupportedTypeError", "OverflowError",
"ArityMismatchError", "FieldCountMismatchError", "DecodeRangeError" or
"DuplicateOrdinalError". Encoding and decoding are all-or-nothing.

Concurrency

All functions are safe for concurrent use. Parsed types and struct parameter
lists are cached; the caches are safe for concurrent access.

Logging

The package is silent by default. To see debug events, such as type cache
population and decoding failures, install a logger:

	ethabi.SetLogger(zap.NewExample())
*/
package ethabi
