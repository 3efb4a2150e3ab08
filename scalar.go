package ethabi

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	bigIntType    = reflect.TypeOf(big.Int{})
	bigIntPtrType = reflect.TypeOf((*big.Int)(nil))
	u256Type      = reflect.TypeOf(uint256.Int{})
	u256PtrType   = reflect.TypeOf((*uint256.Int)(nil))
	addressType   = reflect.TypeOf(Address{})
	byteSliceType = reflect.TypeOf([]byte(nil))

	// 2^256, for two's complement conversions.
	bigTwoTo256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

var (
	trueWord = func() Word {
		var out Word
		out[len(out)-1] = 1
		return out
	}()
	falseWord Word
)

/*
ABI-encodes a scalar value into exactly one word, appending it to the output.
Handles bool, intN, uintN, address and bytesN.
*/
func appendScalar(out []byte, typ *Type, val reflect.Value) ([]byte, error) {
	switch typ.Kind {
	case KindBool:
		if val.Kind() == reflect.Bool {
			if val.Bool() {
				return append(out, trueWord[:]...), nil
			}
			return append(out, falseWord[:]...), nil
		}
		return out, typeMismatch(typ, val)

	case KindInt:
		num, ok := toBigInt(val)
		if !ok {
			return out, typeMismatch(typ, val)
		}
		return appendBigInt(out, typ, num)

	case KindAddress:
		input, ok := toFixedBytes(val)
		if !ok {
			return out, typeMismatch(typ, val)
		}
		if len(input) != len(Address{}) {
			return out, errors.WithStack(ArityMismatchError{Type: typ.Raw, Want: len(Address{}), Got: len(input)})
		}
		return appendLeftPadded(out, input), nil

	case KindFixedBytes:
		input, ok := toFixedBytes(val)
		if !ok {
			return out, typeMismatch(typ, val)
		}
		if len(input) != typ.Len {
			return out, errors.WithStack(ArityMismatchError{Type: typ.Raw, Want: typ.Len, Got: len(input)})
		}
		return appendRightPadded(out, input), nil

	default:
		return out, errors.Errorf(`internal error: %v is not a scalar type`, typ.Raw)
	}
}

/*
Converts any supported Go integer representation into a big.Int. The result may
share memory with the input and must not be modified.
*/
func toBigInt(val reflect.Value) (*big.Int, bool) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(val.Uint()), true
	}

	typ := val.Type()
	if typ.Kind() == reflect.Slice {
		return nil, false
	}
	switch {
	case typ == bigIntPtrType:
		num := val.Interface().(*big.Int)
		return num, num != nil
	case typ.ConvertibleTo(bigIntPtrType):
		num := val.Convert(bigIntPtrType).Interface().(*big.Int)
		return num, num != nil
	case typ == bigIntType || typ.ConvertibleTo(bigIntType):
		num := val.Convert(bigIntType).Interface().(big.Int)
		return &num, true
	case typ == u256Type || typ.ConvertibleTo(u256Type):
		num := val.Convert(u256Type).Interface().(uint256.Int)
		return num.ToBig(), true
	case typ.ConvertibleTo(u256PtrType):
		num := val.Convert(u256PtrType).Interface().(*uint256.Int)
		if num == nil {
			return nil, false
		}
		return num.ToBig(), true
	}
	return nil, false
}

// Extracts bytes from a byte array or byte slice. The length isn't validated.
func toFixedBytes(val reflect.Value) ([]byte, bool) {
	typ := val.Type()
	if typ.Kind() == reflect.Array && typ.Elem().Kind() == reflect.Uint8 {
		slice := reflect.MakeSlice(byteSliceType, typ.Len(), typ.Len())
		reflect.Copy(slice, val)
		return slice.Bytes(), true
	}
	if typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8 {
		return val.Bytes(), true
	}
	return nil, false
}

// Checks that the number fits the declared integer width.
func intFits(typ *Type, num *big.Int) bool {
	if !typ.Signed {
		return num.Sign() >= 0 && num.BitLen() <= typ.Bits
	}
	if num.Sign() >= 0 {
		return num.BitLen() < typ.Bits
	}
	// -2^(b-1) is the smallest allowed; its magnitude minus one has b-1 bits.
	mag := new(big.Int).Neg(num)
	mag.Sub(mag, big.NewInt(1))
	return mag.BitLen() < typ.Bits
}

func appendBigInt(out []byte, typ *Type, num *big.Int) ([]byte, error) {
	if !intFits(typ, num) {
		return out, errors.WithStack(OverflowError{Type: typ.Canonical, Value: num.String()})
	}

	var word Word
	if num.Sign() < 0 {
		new(big.Int).Add(bigTwoTo256, num).FillBytes(word[:])
	} else {
		num.FillBytes(word[:])
	}
	return append(out, word[:]...), nil
}

/*
Decodes one word of a scalar type. Strict: words that aren't the canonical
encoding of a value of the declared type are rejected with "DecodeRangeError".
Integers are returned as *big.Int, addresses as Address, fixed bytes as a
fresh []byte of the declared length.
*/
func decodeScalar(typ *Type, word []byte, offset int) (interface{}, error) {
	switch typ.Kind {
	case KindBool:
		for i, char := range word[:wordSize-1] {
			if char != 0 {
				return nil, malformed(typ, offset, fmt.Sprintf(`byte %#02x at index %v`, char, i))
			}
		}
		switch char := word[wordSize-1]; char {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, malformed(typ, offset, fmt.Sprintf(`byte %#02x in last position`, char))
		}

	case KindInt:
		num := new(big.Int).SetBytes(word)
		if typ.Signed && word[0]&0x80 != 0 {
			num.Sub(num, bigTwoTo256)
		}
		if !intFits(typ, num) {
			return nil, malformed(typ, offset, fmt.Sprintf(`%v overflows %v`, num, typ.Canonical))
		}
		return num, nil

	case KindAddress:
		var out Address
		padding := wordSize - len(out)
		if !isZero(word[:padding]) {
			return nil, malformed(typ, offset, `non-zero padding`)
		}
		copy(out[:], word[padding:])
		return out, nil

	case KindFixedBytes:
		if !isZero(word[typ.Len:]) {
			return nil, malformed(typ, offset, `non-zero padding`)
		}
		out := make([]byte, typ.Len)
		copy(out, word)
		return out, nil

	default:
		return nil, errors.Errorf(`internal error: %v is not a scalar type`, typ.Raw)
	}
}

func isZero(input []byte) bool {
	for _, char := range input {
		if char != 0 {
			return false
		}
	}
	return true
}

func malformed(typ *Type, offset int, reason string) error {
	return errors.WithStack(DecodeRangeError{Type: typ.Raw, Offset: offset, Reason: reason})
}

func typeMismatch(typ *Type, val reflect.Value) error {
	return errors.Errorf(`type mismatch: ABI type %q, Go type %q`, typ.Raw, val.Type())
}

func paddedLen(length int) int {
	return (length + wordSize - 1) / wordSize * wordSize
}

func appendLeftPadded(out []byte, buf []byte) []byte {
	for delta := paddedLen(len(buf)) - len(buf); delta > 0; delta-- {
		out = append(out, 0)
	}
	return append(out, buf...)
}

func appendRightPadded(out []byte, buf []byte) []byte {
	out = append(out, buf...)
	for delta := paddedLen(len(buf)) - len(buf); delta > 0; delta-- {
		out = append(out, 0)
	}
	return out
}

// Used for lengths and offsets.
func appendUint64(out []byte, num uint64) []byte {
	var word Word
	binary.BigEndian.PutUint64(word[wordSize-8:], num)
	return append(out, word[:]...)
}

/*
Reads a length or offset word. These are uint256 on the wire but must fit into
an int for indexing; anything larger can't possibly point inside the buffer and
is rejected.
*/
func readUint(word []byte) (int, bool) {
	if !isZero(word[:wordSize-8]) {
		return 0, false
	}
	num := binary.BigEndian.Uint64(word[wordSize-8:])
	if num > uint64(maxStaticSize) {
		return 0, false
	}
	return int(num), true
}

/*
Unwraps pointers and interfaces down to a concrete value. Stops at *big.Int,
which is the preferred representation of integers. Returns an invalid value
for nil pointers and interfaces.
*/
func deref(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Interface ||
		(val.Kind() == reflect.Ptr && !val.Type().ConvertibleTo(bigIntPtrType))) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}
