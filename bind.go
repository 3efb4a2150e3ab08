package ethabi

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

/*
Allows a user-defined type to accept a decoded value on its own terms. Invoked
by the setters built by "StructParams" when a field's pointer implements it.
The value has the canonical decoded representation; see "Decode".
*/
type AbiUnmarshaler interface {
	EthAbiUnmarshal(typ *Type, value interface{}) error
}

var structParamsCache sync.Map // reflect.Type -> Params

/*
Builds a parameter list from struct field tags, with reflection-based accessors.
Only exported fields with an "abi" tag participate. Tag syntax:

	abi:"<type>[,name=<name>][,pos=<position>]"

The name defaults to the Go field name. The position is an explicit ordinal; see
"Param". It must be positive: zero is the ordinal of an unpositioned field.
Example:

	type Multi struct {
		A string     `abi:"string"`
		B []*big.Int `abi:"uint[20],name=b,pos=2"`
		C string     `abi:"string,pos=3"`
	}

The input may be a struct or a pointer to one; only its type matters. Results
are cached per type.

Getters accept the struct or a pointer to it. Setters require a non-nil pointer
and convert decoded values into the field's Go type, failing rather than
truncating when a number doesn't fit.
*/
func StructParams(proto interface{}) (Params, error) {
	typ := reflect.TypeOf(proto)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.Errorf(`can't derive ABI parameters from %v, expected a struct`, typ)
	}

	cached, ok := structParamsCache.Load(typ)
	if ok {
		return append(Params(nil), cached.(Params)...), nil
	}

	var params []Param
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("abi")
		if !ok || tag == "-" || !field.IsExported() {
			continue
		}

		param, err := fieldParam(typ, i, tag)
		if err != nil {
			return nil, errors.Wrapf(err, `invalid ABI tag on %v.%v`, typ, field.Name)
		}
		params = append(params, param)
	}

	out, err := ResolveParams(params...)
	if err != nil {
		return nil, errors.Wrapf(err, `invalid ABI parameters in %v`, typ)
	}

	structParamsCache.Store(typ, out)
	return append(Params(nil), out...), nil
}

// Version of "StructParams" that panics on error. Convenient for initializing
// global variables.
func MustStructParams(proto interface{}) Params {
	out, err := StructParams(proto)
	if err != nil {
		panic(err)
	}
	return out
}

func fieldParam(structType reflect.Type, index int, tag string) (Param, error) {
	field := structType.Field(index)
	parts := strings.Split(tag, ",")

	abiType, err := ParseType(strings.TrimSpace(parts[0]))
	if err != nil {
		return Param{}, err
	}

	param := Param{Name: field.Name, Type: abiType}

	for _, part := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(part), "=")
		switch key {
		case "name":
			param.Name = val
		case "pos":
			pos, err := strconv.Atoi(val)
			if err != nil || pos < 0 {
				return Param{}, errors.Errorf(`malformed position %q`, val)
			}
			// Zero means declaration order, so an explicit "pos=0" couldn't be honored.
			if pos == 0 {
				return Param{}, errors.New(`position 0 is reserved for declaration order; omit "pos" or use a positive position`)
			}
			param.Ordinal = pos
		default:
			return Param{}, errors.Errorf(`unknown option %q`, part)
		}
	}

	param.Get = func(src interface{}) (interface{}, error) {
		val, err := structValue(structType, src, false)
		if err != nil {
			return nil, err
		}
		return val.Field(index).Interface(), nil
	}

	param.Set = func(dst interface{}, value interface{}) error {
		val, err := structValue(structType, dst, true)
		if err != nil {
			return err
		}
		return assign(val.Field(index), abiType, value)
	}

	return param, nil
}

func structValue(structType reflect.Type, input interface{}, settable bool) (reflect.Value, error) {
	val := reflect.ValueOf(input)
	if settable && (val.Kind() != reflect.Ptr || val.IsNil()) {
		return reflect.Value{}, errors.Errorf(`can't assign into non-pointer of type %T`, input)
	}
	for val.Kind() == reflect.Ptr && !val.IsNil() {
		val = val.Elem()
	}
	if !val.IsValid() || val.Type() != structType {
		return reflect.Value{}, errors.Errorf(`expected %v, got %T`, structType, input)
	}
	return val, nil
}

/*
Assigns a canonical decoded value into an arbitrary Go value, converting as
needed. Fails on type mismatch or when a number doesn't fit the target.
*/
func assign(dst reflect.Value, typ *Type, value interface{}) error {
	if dst.CanAddr() {
		un, ok := dst.Addr().Interface().(AbiUnmarshaler)
		if ok {
			return un.EthAbiUnmarshal(typ, value)
		}
	}

	dstType := dst.Type()

	if dstType.Kind() == reflect.Interface {
		if value == nil {
			dst.Set(reflect.Zero(dstType))
			return nil
		}
		val := reflect.ValueOf(value)
		if !val.Type().AssignableTo(dstType) {
			return assignMismatch(typ, dstType)
		}
		dst.Set(val)
		return nil
	}

	if dstType.Kind() == reflect.Ptr && dstType != bigIntPtrType && dstType != u256PtrType {
		elem := reflect.New(dstType.Elem())
		err := assign(elem.Elem(), typ, value)
		if err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	switch value := value.(type) {
	case bool:
		if dstType.Kind() == reflect.Bool {
			dst.SetBool(value)
			return nil
		}

	case *big.Int:
		return assignInt(dst, typ, value)

	case Address:
		if addressType.ConvertibleTo(dstType) && dstType.Kind() == reflect.Array {
			dst.Set(reflect.ValueOf(value).Convert(dstType))
			return nil
		}

	case string:
		if dstType.Kind() == reflect.String {
			dst.SetString(value)
			return nil
		}
		if dstType.Kind() == reflect.Slice && dstType.Elem().Kind() == reflect.Uint8 {
			dst.SetBytes([]byte(value))
			return nil
		}

	case []byte:
		switch {
		case dstType.Kind() == reflect.Slice && dstType.Elem().Kind() == reflect.Uint8:
			dst.SetBytes(value)
			return nil
		case dstType.Kind() == reflect.Array && dstType.Elem().Kind() == reflect.Uint8:
			if dstType.Len() != len(value) {
				return errors.WithStack(ArityMismatchError{Type: typ.Raw, Want: dstType.Len(), Got: len(value)})
			}
			reflect.Copy(dst, reflect.ValueOf(value))
			return nil
		case dstType.Kind() == reflect.String:
			dst.SetString(string(value))
			return nil
		}

	case []interface{}:
		return assignArray(dst, typ, value)
	}

	return assignMismatch(typ, dstType)
}

func assignArray(dst reflect.Value, typ *Type, values []interface{}) error {
	if typ.Elem == nil {
		return assignMismatch(typ, dst.Type())
	}

	var storage reflect.Value

	switch dst.Kind() {
	case reflect.Slice:
		storage = reflect.MakeSlice(dst.Type(), len(values), len(values))
	case reflect.Array:
		if dst.Len() != len(values) {
			return errors.WithStack(ArityMismatchError{Type: typ.Raw, Want: dst.Len(), Got: len(values)})
		}
		storage = reflect.New(dst.Type()).Elem()
	default:
		return assignMismatch(typ, dst.Type())
	}

	for i, value := range values {
		err := assign(storage.Index(i), typ.Elem, value)
		if err != nil {
			return errors.Wrapf(err, `failed to assign element %v`, i)
		}
	}

	dst.Set(storage)
	return nil
}

func assignInt(dst reflect.Value, typ *Type, num *big.Int) error {
	dstType := dst.Type()

	switch dstType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !num.IsInt64() || dst.OverflowInt(num.Int64()) {
			return errors.WithStack(OverflowError{Type: dstType.String(), Value: num.String()})
		}
		dst.SetInt(num.Int64())
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !num.IsUint64() || dst.OverflowUint(num.Uint64()) {
			return errors.WithStack(OverflowError{Type: dstType.String(), Value: num.String()})
		}
		dst.SetUint(num.Uint64())
		return nil
	}

	switch {
	case dstType == bigIntPtrType:
		dst.Set(reflect.ValueOf(num))
	case bigIntPtrType.ConvertibleTo(dstType):
		dst.Set(reflect.ValueOf(num).Convert(dstType))
	case dstType == bigIntType || bigIntType.ConvertibleTo(dstType):
		dst.Set(reflect.ValueOf(*num).Convert(dstType))
	case dstType == u256PtrType || dstType == u256Type:
		if num.Sign() < 0 {
			return errors.WithStack(OverflowError{Type: dstType.String(), Value: num.String()})
		}
		out, overflow := uint256.FromBig(num)
		if overflow {
			return errors.WithStack(OverflowError{Type: dstType.String(), Value: num.String()})
		}
		if dstType == u256PtrType {
			dst.Set(reflect.ValueOf(out))
		} else {
			dst.Set(reflect.ValueOf(*out))
		}
	default:
		return assignMismatch(typ, dstType)
	}
	return nil
}

func assignMismatch(typ *Type, dstType reflect.Type) error {
	return errors.Errorf(`type mismatch: ABI type %q, Go type %q`, typ.Raw, dstType)
}
