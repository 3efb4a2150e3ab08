package ethabi

import (
	"reflect"

	"github.com/pkg/errors"
)

/*
ABI-encodes "T[N]" or "T[]". Accepts Go arrays and slices of anything the
element type accepts, including []interface{}.

A fixed-size array of static elements is the plain concatenation of its
elements, with no length or offsets. Otherwise the elements form a tuple of
their own (see "appendTuple"), and "T[]" additionally starts with the element
count.
*/
func appendArray(out []byte, typ *Type, val reflect.Value) ([]byte, error) {
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		return out, typeMismatch(typ, val)
	}

	// Note: element count, not byte count
	length := val.Len()
	if typ.Kind == KindFixedArray {
		if length != typ.Len {
			return out, errors.WithStack(ArityMismatchError{Type: typ.Raw, Want: typ.Len, Got: length})
		}
	} else {
		out = appendUint64(out, uint64(length))
	}

	out, err := appendTuple(out, repeatType(typ.Elem), length, val.Index)
	return out, errors.Wrapf(err, `failed to encode %q`, typ.Raw)
}

/*
Decodes "T[N]" or "T[]" whose encoding starts at the given offset. The result
is always []interface{}. For "T[]", the element count is checked against the
remaining input before anything is allocated.
*/
func (self *decoder) array(typ *Type, offset int) (interface{}, error) {
	input := self.input
	length := typ.Len

	if typ.Kind == KindArray {
		if len(input)-offset < wordSize {
			return nil, errors.WithStack(lenMismatch(typ.Raw, offset, offset+wordSize, len(input)))
		}
		err := self.spend(typ, offset, 1)
		if err != nil {
			return nil, err
		}
		var ok bool
		length, ok = readUint(input[offset : offset+wordSize])
		offset += wordSize
		if !ok || length > (len(input)-offset)/typ.Elem.headSize() {
			return nil, malformed(typ, offset-wordSize, `element count exceeds the remaining input`)
		}
	}

	out, err := self.tuple(repeatType(typ.Elem), length, offset)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to decode %q`, typ.Raw)
	}
	return out, nil
}

func repeatType(typ *Type) func(int) *Type {
	return func(int) *Type { return typ }
}
