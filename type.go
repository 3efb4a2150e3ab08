package ethabi

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Represents a broad category of ABI types. The set is closed; adding a new ABI
type means adding a kind here and one arm to each encoding and decoding switch.
*/
type Kind byte

const (
	KindBool Kind = iota + 1
	KindInt
	KindAddress
	KindFixedBytes
	KindBytes
	KindString
	KindFixedArray
	KindArray
)

// Implements "fmt.Stringer".
func (self Kind) String() string {
	switch self {
	case KindBool:
		return "KindBool"
	case KindInt:
		return "KindInt"
	case KindAddress:
		return "KindAddress"
	case KindFixedBytes:
		return "KindFixedBytes"
	case KindBytes:
		return "KindBytes"
	case KindString:
		return "KindString"
	case KindFixedArray:
		return "KindFixedArray"
	case KindArray:
		return "KindArray"
	default:
		return ""
	}
}

/*
Details about a concrete ABI type, parsed from its textual name via
"ParseType". Immutable after parsing; parsed types are memoized and shared
between goroutines, so don't modify them.

Which fields are meaningful depends on the kind:

	KindInt         Signed, Bits (8..256)
	KindFixedBytes  Len (1..32)
	KindFixedArray  Len (element count), Elem
	KindArray       Elem
*/
type Type struct {
	Raw       string // as given, e.g. "uint[2]"
	Canonical string // used in signatures, e.g. "uint256[2]"
	Kind      Kind
	Signed    bool
	Bits      int
	Len       int
	Elem      *Type
}

// Implements "fmt.Stringer". Returns the raw type name.
func (self *Type) String() string { return self.Raw }

/*
True for "bytes", "string", "T[]", and fixed-size arrays whose element type is
dynamic. Dynamic values are encoded out of line, referenced from the head by an
offset.
*/
func (self *Type) IsDynamic() bool {
	switch self.Kind {
	case KindBytes, KindString, KindArray:
		return true
	case KindFixedArray:
		return self.Elem.IsDynamic()
	default:
		return false
	}
}

/*
Determines how many bytes are needed to ABI-encode a value of this type. Returns
-1 for dynamic types. Otherwise, it's 32 for scalars, and the element size times
the length for static fixed-size arrays.
*/
func (self *Type) FixedSize() int {
	switch self.Kind {
	case KindBytes, KindString, KindArray:
		return -1
	case KindFixedArray:
		size := self.Elem.FixedSize()
		if size < 0 {
			return -1
		}
		return size * self.Len
	default:
		return wordSize
	}
}

// Number of bytes this type occupies in the head of a tuple.
func (self *Type) headSize() int {
	size := self.FixedSize()
	if size < 0 {
		return wordSize
	}
	return size
}

// Largest static size we agree to parse. Keeps size arithmetic away from
// integer overflow.
const maxStaticSize = math.MaxInt32

var (
	abiIntReg        = regexp.MustCompile(`^(u?)int(\d*)$`)
	abiFixedBytesReg = regexp.MustCompile(`^bytes(\d+)$`)
	abiArrayReg      = regexp.MustCompile(`^(.+)\[(\d*)\]$`)

	typeCache sync.Map // string -> *Type
)

/*
Accepts the name of an ABI type, such as "bytes32", "uint256" or "address[12]",
and returns its details. Array suffixes nest right to left: "uint[2][3]" is an
array of 3 arrays of 2 "uint256". Fails with "UnsupportedTypeError" for anything
outside the supported set.

Results are memoized by name. Safe for concurrent use.
*/
func ParseType(name string) (*Type, error) {
	val, ok := typeCache.Load(name)
	if ok {
		return val.(*Type), nil
	}

	typ, err := parseType(name)
	if err != nil {
		return nil, err
	}

	val, loaded := typeCache.LoadOrStore(name, typ)
	if !loaded {
		Logger().Debug("parsed ABI type",
			zap.String("type", name),
			zap.String("canonical", typ.Canonical),
			zap.Bool("dynamic", typ.IsDynamic()))
	}
	return val.(*Type), nil
}

/*
Version of "ParseType" that panics on error. Convenient for initializing global
variables.
*/
func MustParseType(name string) *Type {
	typ, err := ParseType(name)
	if err != nil {
		panic(err)
	}
	return typ
}

// Parses each name via "ParseType".
func ParseTypes(names ...string) ([]*Type, error) {
	out := make([]*Type, len(names))
	for i, name := range names {
		typ, err := ParseType(name)
		if err != nil {
			return nil, err
		}
		out[i] = typ
	}
	return out, nil
}

// Version of "ParseTypes" that panics on error.
func MustParseTypes(names ...string) []*Type {
	out, err := ParseTypes(names...)
	if err != nil {
		panic(err)
	}
	return out
}

func parseType(name string) (*Type, error) {
	switch {
	case name == "bool":
		return &Type{Raw: name, Canonical: name, Kind: KindBool}, nil

	case name == "address":
		return &Type{Raw: name, Canonical: name, Kind: KindAddress}, nil

	case name == "string":
		return &Type{Raw: name, Canonical: name, Kind: KindString}, nil

	case name == "bytes":
		return &Type{Raw: name, Canonical: name, Kind: KindBytes}, nil

	case abiArrayReg.MatchString(name):
		return parseArrayType(name)

	case abiFixedBytesReg.MatchString(name):
		match := abiFixedBytesReg.FindStringSubmatch(name)
		length, ok := parseDecimal(match[1])
		if !ok || length < 1 || length > wordSize {
			return nil, unsupported(name, `fixed byte arrays must have a length between 1 and 32`)
		}
		return &Type{Raw: name, Canonical: name, Kind: KindFixedBytes, Len: length}, nil

	case abiIntReg.MatchString(name):
		match := abiIntReg.FindStringSubmatch(name)
		bits := 256
		if match[2] != "" {
			var ok bool
			bits, ok = parseDecimal(match[2])
			if !ok || bits < 8 || bits > 256 || bits%8 != 0 {
				return nil, unsupported(name, `integer width must be a multiple of 8 between 8 and 256`)
			}
		}
		prefix := match[1]
		return &Type{
			Raw:       name,
			Canonical: prefix + "int" + strconv.Itoa(bits),
			Kind:      KindInt,
			Signed:    prefix == "",
			Bits:      bits,
		}, nil

	default:
		return nil, unsupported(name, "")
	}
}

func parseArrayType(name string) (*Type, error) {
	// Outermost dimension is the last suffix.
	index := strings.LastIndexByte(name, '[')
	suffix := name[index+1 : len(name)-1]

	elem, err := ParseType(name[:index])
	if err != nil {
		return nil, unsupported(name, errors.Cause(err).Error())
	}

	if suffix == "" {
		return &Type{
			Raw:       name,
			Canonical: elem.Canonical + "[]",
			Kind:      KindArray,
			Elem:      elem,
		}, nil
	}

	length, ok := parseDecimal(suffix)
	if !ok || length < 1 {
		return nil, unsupported(name, `fixed array length must be a positive decimal number`)
	}

	size := elem.headSize()
	if length > maxStaticSize/size {
		return nil, unsupported(name, `fixed array is too large`)
	}

	return &Type{
		Raw:       name,
		Canonical: elem.Canonical + "[" + strconv.Itoa(length) + "]",
		Kind:      KindFixedArray,
		Len:       length,
		Elem:      elem,
	}, nil
}

// Rejects leading zeros so that every type has exactly one spelling.
func parseDecimal(input string) (int, bool) {
	if len(input) > 1 && input[0] == '0' {
		return 0, false
	}
	num, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}
	return num, true
}

func unsupported(name, reason string) error {
	return errors.WithStack(UnsupportedTypeError{Type: name, Reason: reason})
}
