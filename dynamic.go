package ethabi

import (
	"reflect"

	"github.com/pkg/errors"
)

/*
ABI-encodes "bytes" or "string": a length word counting bytes (not characters),
followed by the content, zero-padded on the right to a multiple of 32 bytes.
*/
func appendDynamic(out []byte, typ *Type, val reflect.Value) ([]byte, error) {
	var input []byte

	switch {
	case val.Kind() == reflect.String:
		input = stringToBytesUnsafe(val.String())
	case val.Kind() == reflect.Slice && val.Type().Elem().Kind() == reflect.Uint8:
		input = val.Bytes()
	case val.Kind() == reflect.Array && val.Type().Elem().Kind() == reflect.Uint8 && typ.Kind == KindBytes:
		input, _ = toFixedBytes(val)
	default:
		return out, typeMismatch(typ, val)
	}

	out = appendUint64(out, uint64(len(input)))
	return appendRightPadded(out, input), nil
}

/*
Decodes "bytes" or "string" starting at the given offset. Returns the content,
a fresh copy that never aliases the input. Padding is skipped without
validation. The length word is bounds-checked against the buffer before
anything is sliced.
*/
func (self *decoder) dynamic(typ *Type, offset int) (interface{}, error) {
	input := self.input
	if len(input)-offset < wordSize {
		return nil, errors.WithStack(lenMismatch(typ.Raw, offset, offset+wordSize, len(input)))
	}

	length, ok := readUint(input[offset : offset+wordSize])
	start := offset + wordSize
	if !ok || length > len(input)-start {
		return nil, malformed(typ, offset, `length word points past the end of the input`)
	}

	err := self.spend(typ, offset, 1+paddedLen(length)/wordSize)
	if err != nil {
		return nil, err
	}

	body := input[start : start+length]
	if typ.Kind == KindString {
		return string(body), nil
	}
	out := make([]byte, length)
	copy(out, body)
	return out, nil
}
