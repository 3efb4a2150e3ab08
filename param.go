package ethabi

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

/*
Describes one parameter of a function: its position, name and type, plus
accessors mapping it onto a field of a structured Go value. The accessors are
optional; without them, the parameter list can only be used positionally via
"Function.Marshal" and "Function.Unmarshal".

"Ordinal" is an explicit position override. Zero means declaration order, i.e.
the parameter's index in the list given to "ResolveParams". After resolution,
it holds the final 0-based position.
*/
type Param struct {
	Ordinal int
	Name    string
	Type    *Type
	Get     func(src interface{}) (interface{}, error)
	Set     func(dst interface{}, value interface{}) error
}

/*
An ordered parameter list, as returned by "ResolveParams". The index of each
parameter is its position in the ABI encoding.
*/
type Params []Param

/*
Orders parameters by their explicit "Ordinal" or, when it's zero, by their
index in the input. The sort is stable. Two parameters resolving to the same
position fail with "DuplicateOrdinalError". Every parameter must have a type.
The output is a new slice with ordinals renumbered 0..n-1.
*/
func ResolveParams(params ...Param) (Params, error) {
	type keyed struct {
		key   int
		param Param
	}

	entries := make([]keyed, len(params))
	for i, param := range params {
		if param.Type == nil {
			return nil, errors.Errorf(`parameter %v (%q) has no type`, i, param.Name)
		}
		if param.Ordinal < 0 {
			return nil, errors.Errorf(`parameter %v (%q) has negative ordinal %v`, i, param.Name, param.Ordinal)
		}
		key := i
		if param.Ordinal != 0 {
			key = param.Ordinal
		}
		entries[i] = keyed{key: key, param: param}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].key < entries[b].key
	})

	out := make(Params, len(entries))
	for i, entry := range entries {
		if i > 0 && entries[i-1].key == entry.key {
			return nil, errors.WithStack(DuplicateOrdinalError{
				Ordinal: entry.key,
				Names:   [2]string{entries[i-1].param.Name, entry.param.Name},
			})
		}
		out[i] = entry.param
		out[i].Ordinal = i
	}
	return out, nil
}

// Version of "ResolveParams" that panics on error. Convenient for
// initializing global variables.
func MustResolveParams(params ...Param) Params {
	out, err := ResolveParams(params...)
	if err != nil {
		panic(err)
	}
	return out
}

// Returns the parameter types, in order.
func (self Params) Types() []*Type {
	out := make([]*Type, len(self))
	for i, param := range self {
		out[i] = param.Type
	}
	return out
}

/*
Formats a canonical function signature, such as "transfer(address,uint256)":
the name followed by the canonical parameter types, comma-separated. This is
the input to selector hashing.
*/
func (self Params) Signature(name string) string {
	var buf strings.Builder
	buf.WriteString(name)
	buf.WriteByte('(')
	for i, param := range self {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(param.Type.Canonical)
	}
	buf.WriteByte(')')
	return buf.String()
}

// Finds a parameter by name. Boolean indicates success or failure.
func (self Params) Lookup(name string) (Param, bool) {
	for _, param := range self {
		if param.Name == name {
			return param, true
		}
	}
	return Param{}, false
}

// Reads every parameter from the source via its "Get" accessor.
func (self Params) extract(src interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(self))
	for i, param := range self {
		if param.Get == nil {
			return nil, errors.Errorf(`parameter %v (%q) has no getter`, i, param.Name)
		}
		val, err := param.Get(src)
		if err != nil {
			return nil, errors.Wrapf(err, `failed to read parameter %v (%q)`, i, param.Name)
		}
		out[i] = val
	}
	return out, nil
}

// Writes decoded values into the destination via each "Set" accessor.
func (self Params) inject(dst interface{}, values []interface{}) error {
	if len(values) != len(self) {
		return errors.WithStack(FieldCountMismatchError{Want: len(self), Got: len(values)})
	}
	for i, param := range self {
		if param.Set == nil {
			return errors.Errorf(`parameter %v (%q) has no setter`, i, param.Name)
		}
		err := param.Set(dst, values[i])
		if err != nil {
			return errors.Wrapf(err, `failed to assign parameter %v (%q)`, i, param.Name)
		}
	}
	return nil
}
