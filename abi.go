package ethabi

/*
See https://docs.soliditylang.org/en/latest/abi-spec.html
*/

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
Abi represents the function definitions of a contract, parsed from a JSON ABI
definition as produced by a Solidity compiler. Entries other than functions
(constructors, events, errors, fallback and receive) are skipped, and so are
functions with parameter types outside the supported set, such as tuples; each
skipped function is logged at debug level.

Functions loaded this way have no parameter accessors; use them positionally
via "Function.Marshal" and "Function.Unmarshal", or generate tagged structs
with the "gen_abi" tool.
*/
type Abi []Function

/*
^^^
Implementation note. Defining this type as a slice keeps declaration order, which
the code generator relies on for deterministic output. Lookups loop through the
slice, comparing each item by name; this is dominated by the costs of ABI
encoding and decoding.
*/

// Parses a JSON ABI definition.
func ParseAbiJson(input []byte) (Abi, error) {
	var out Abi
	err := out.UnmarshalJSON(input)
	return out, err
}

// Reads and parses a JSON ABI definition.
func ReadAbiJson(src io.Reader) (Abi, error) {
	input, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read ABI definition`)
	}
	return ParseAbiJson(input)
}

/*
Parses a JSON ABI definition. Panics on failure. Convenient for initializing
global variables on startup:

	var TestAbi = ethabi.MustParseAbiJson(`[{"name": "test", "type": "function", "inputs": [...]}]`)
*/
func MustParseAbiJson(input string) Abi {
	out, err := ParseAbiJson(stringToBytesUnsafe(input))
	if err != nil {
		panic(err)
	}
	return out
}

// Attempts to find the function by name. Boolean indicates success or failure.
func (self Abi) MaybeFunction(name string) (Function, bool) {
	for _, fun := range self {
		if fun.Name == name {
			return fun, true
		}
	}
	return Function{}, false
}

// Finds the function by name. Panics if not found.
func (self Abi) Function(name string) Function {
	out, ok := self.MaybeFunction(name)
	if !ok {
		panic(fmt.Sprintf("function %v not found in ABI definition", name))
	}
	return out
}

// Attempts to find the function by selector. Boolean indicates success or failure.
func (self Abi) MaybeFunctionBySelector(selector Selector) (Function, bool) {
	for _, fun := range self {
		if fun.Selector == selector {
			return fun, true
		}
	}
	return Function{}, false
}

/*
Implements "json.Unmarshaler". Decodes a JSON ABI definition, parsing every
parameter type and precomputing each function's selector.
*/
func (self *Abi) UnmarshalJSON(input []byte) error {
	var entries []struct {
		Type    string     `json:"type"`
		Name    string     `json:"name"`
		Inputs  []AbiParam `json:"inputs"`
		Outputs []AbiParam `json:"outputs"`
	}

	err := json.Unmarshal(input, &entries)
	if err != nil {
		return errors.Wrap(err, `failed to decode ABI definition`)
	}

	out := make(Abi, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "function" && entry.Type != "" {
			continue
		}

		inputs, err := abiParams(entry.Inputs)
		if err == nil {
			var outputs []Param
			outputs, err = abiParams(entry.Outputs)
			if err == nil {
				var fun Function
				fun, err = NewFunction(entry.Name, ZeroSelector, inputs, outputs)
				if err == nil {
					out = append(out, fun)
					continue
				}
			}
		}

		if isUnsupported(err) {
			Logger().Debug("skipped ABI function with unsupported parameter types",
				zap.String("function", entry.Name),
				zap.Error(err))
			continue
		}
		return errors.Wrapf(err, `invalid function %q`, entry.Name)
	}

	*self = out
	return nil
}

func isUnsupported(err error) bool {
	var unsupported UnsupportedTypeError
	return errors.As(err, &unsupported)
}

/*
A function parameter as it appears in a JSON ABI definition. Tuple components
aren't supported.
*/
type AbiParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func abiParams(input []AbiParam) ([]Param, error) {
	out := make([]Param, len(input))
	for i, param := range input {
		typ, err := ParseType(param.Type)
		if err != nil {
			return nil, errors.Wrapf(err, `parameter %v (%q)`, i, param.Name)
		}
		out[i] = Param{Name: param.Name, Type: typ}
	}
	return out, nil
}
