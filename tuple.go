package ethabi

import (
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Allows a user-defined type to implement its own ABI encoding. The output must
be the complete encoding of a value of the given type: a whole number of words,
and exactly "typ.FixedSize()" bytes for static types.
*/
type AbiMarshaler interface {
	EthAbiMarshal(typ *Type) ([]byte, error)
}

/*
ABI-encodes a single value as a self-contained payload. For static types this
is the value's inline encoding; for dynamic types it's the payload an offset
would point to.
*/
func Encode(typ *Type, input interface{}) ([]byte, error) {
	return appendValue(nil, typ, reflect.ValueOf(input))
}

/*
ABI-encodes multiple values, typically the parameters of a function call:
head words for every value, inline for static types and offsets for dynamic
ones, followed by the dynamic payloads in the same order. Offsets count from
the start of the output. Zero types produce empty output.

Fails with "FieldCountMismatchError" if the counts differ.
*/
func EncodeArgs(types []*Type, args ...interface{}) ([]byte, error) {
	return appendArgs(nil, types, args)
}

func appendArgs(out []byte, types []*Type, args []interface{}) ([]byte, error) {
	if len(types) != len(args) {
		return out, errors.WithStack(FieldCountMismatchError{Want: len(types), Got: len(args)})
	}
	return appendTuple(out, func(i int) *Type { return types[i] }, len(types), func(i int) reflect.Value {
		return reflect.ValueOf(args[i])
	})
}

func appendValue(out []byte, typ *Type, val reflect.Value) ([]byte, error) {
	val = deref(val)
	if !val.IsValid() {
		return out, errors.Errorf(`can't encode nil as %q`, typ.Raw)
	}

	if val.CanInterface() {
		mar, ok := val.Interface().(AbiMarshaler)
		if ok {
			return appendMarshaler(out, typ, mar)
		}
	}

	switch typ.Kind {
	case KindBytes, KindString:
		return appendDynamic(out, typ, val)
	case KindFixedArray, KindArray:
		return appendArray(out, typ, val)
	default:
		return appendScalar(out, typ, val)
	}
}

func appendMarshaler(out []byte, typ *Type, mar AbiMarshaler) ([]byte, error) {
	chunk, err := mar.EthAbiMarshal(typ)
	if err != nil {
		return out, err
	}
	if len(chunk)%wordSize != 0 {
		return out, errors.Errorf(`%T produced %v bytes for %q, expected a multiple of %v`, mar, len(chunk), typ.Raw, wordSize)
	}
	size := typ.FixedSize()
	if size >= 0 && len(chunk) != size {
		return out, errors.Errorf(`%T produced %v bytes for %q, expected %v`, mar, len(chunk), typ.Raw, size)
	}
	return append(out, chunk...), nil
}

/*
The head/tail algorithm, shared by parameter lists and arrays. Static values go
directly into the head, occupying "FixedSize()" bytes. Each dynamic value gets
one head word holding the offset of its payload, measured from the start of
this tuple's head. Payloads are appended after the head, in order.
*/
func appendTuple(out []byte, typeAt func(int) *Type, count int, valueAt func(int) reflect.Value) ([]byte, error) {
	heapOffset := 0
	for i := 0; i < count; i++ {
		heapOffset += typeAt(i).headSize()
	}

	var heap []byte
	var err error

	for i := 0; i < count; i++ {
		typ := typeAt(i)

		if !typ.IsDynamic() {
			before := len(out)
			out, err = appendValue(out, typ, valueAt(i))
			if err != nil {
				return out, errors.Wrapf(err, `failed to encode element %v of type %q`, i, typ.Raw)
			}
			if len(out)-before != typ.FixedSize() {
				return out, errors.Errorf(`internal error while encoding element %v of type %q: expected %v bytes, found %v`,
					i, typ.Raw, typ.FixedSize(), len(out)-before)
			}
			continue
		}

		out = appendUint64(out, uint64(heapOffset))
		before := len(heap)
		heap, err = appendValue(heap, typ, valueAt(i))
		if err != nil {
			return out, errors.Wrapf(err, `failed to encode element %v of type %q`, i, typ.Raw)
		}
		heapOffset += len(heap) - before
	}

	return append(out, heap...), nil
}

/*
ABI-decodes a single self-contained payload, the dual of "Encode". Integers
decode as *big.Int, addresses as Address, "bytesN" and "bytes" as []byte,
"string" as string, arrays as []interface{}.
*/
func Decode(typ *Type, input []byte) (interface{}, error) {
	out, err := newDecoder(input).value(typ, 0)
	if err != nil {
		logDecodeFailure(err, len(input))
		return nil, err
	}
	return out, nil
}

/*
ABI-decodes multiple values, typically return values of a function call, the
dual of "EncodeArgs". The input must not include a selector. Each dynamic value
is read by following its head offset relative to the start of the input.

Fails with "FieldCountMismatchError" if the input is too short to hold a head
slot for every type, and with "DecodeRangeError" for offsets or lengths that
point outside the input or for non-canonical words. Never reads out of bounds.
*/
func DecodeArgs(types []*Type, input []byte) ([]interface{}, error) {
	headSize := 0
	slots := 0
	for _, typ := range types {
		headSize += typ.headSize()
		if headSize <= len(input) {
			slots++
		}
	}
	if slots != len(types) {
		return nil, errors.WithStack(FieldCountMismatchError{Want: len(types), Got: slots})
	}

	out, err := newDecoder(input).tuple(func(i int) *Type { return types[i] }, len(types), 0)
	if err != nil {
		logDecodeFailure(err, len(input))
		return nil, err
	}
	return out, nil
}

// How many words one decoding call may read per word of input.
const decodeBudgetFactor = 4

/*
State of one top-level decoding call. Every word read (scalars, offsets,
counts, length prefixes and payloads) is charged against a budget proportional
to the input size. Well-formed input reads each word once. Offsets that alias
the same payload are legal, but can't multiply the work beyond the budget.
*/
type decoder struct {
	input  []byte
	budget int
}

func newDecoder(input []byte) *decoder {
	return &decoder{
		input:  input,
		budget: decodeBudgetFactor * (len(input)/wordSize + 1),
	}
}

func (self *decoder) spend(typ *Type, offset int, words int) error {
	if words > self.budget {
		return malformed(typ, offset, `input references more data than it contains`)
	}
	self.budget -= words
	return nil
}

func (self *decoder) value(typ *Type, offset int) (interface{}, error) {
	switch typ.Kind {
	case KindBytes, KindString:
		return self.dynamic(typ, offset)

	case KindFixedArray, KindArray:
		return self.array(typ, offset)

	default:
		input := self.input
		if len(input)-offset < wordSize {
			return nil, errors.WithStack(lenMismatch(typ.Raw, offset, offset+wordSize, len(input)))
		}
		err := self.spend(typ, offset, 1)
		if err != nil {
			return nil, err
		}
		return decodeScalar(typ, input[offset:offset+wordSize], offset)
	}
}

/*
Decodes a tuple whose head starts at "base". Offsets in the head are relative
to "base". Validates that the whole head fits before decoding anything.
*/
func (self *decoder) tuple(typeAt func(int) *Type, count int, base int) ([]interface{}, error) {
	input := self.input

	if count > self.budget {
		return nil, malformed(typeAt(0), base, `input references more data than it contains`)
	}

	headEnd := base
	for i := 0; i < count; i++ {
		headEnd += typeAt(i).headSize()
		if headEnd > len(input) {
			return nil, errors.WithStack(lenMismatch(typeAt(i).Raw, base, headEnd, len(input)))
		}
	}

	out := make([]interface{}, count)
	pos := base

	for i := 0; i < count; i++ {
		typ := typeAt(i)

		var val interface{}
		var err error

		if typ.IsDynamic() {
			err = self.spend(typ, pos, 1)
			if err != nil {
				return nil, err
			}
			rel, ok := readUint(input[pos : pos+wordSize])
			if !ok || rel > len(input)-base {
				return nil, malformed(typ, pos, `offset points past the end of the input`)
			}
			val, err = self.value(typ, base+rel)
		} else {
			val, err = self.value(typ, pos)
		}
		if err != nil {
			return nil, errors.Wrapf(err, `failed to decode element %v of type %q`, i, typ.Raw)
		}

		out[i] = val
		pos += typ.headSize()
	}

	return out, nil
}

func logDecodeFailure(err error, size int) {
	log := Logger()
	if ce := log.Check(zap.DebugLevel, "ABI decoding failed"); ce != nil {
		ce.Write(zap.Int("inputSize", size), zap.Error(err))
	}
}
