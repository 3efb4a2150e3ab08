package ethabi

import (
	"bytes"
	"reflect"

	"github.com/pkg/errors"
)

/*
Represents a contract function: its name, selector, and input and output
parameter lists. Encodes call data for requests and decodes return data.

Usually obtained via "FunctionOf" for struct-bound parameters, "NewFunction"
for hand-built ones, or "Abi.Function" for definitions loaded from JSON.
*/
type Function struct {
	Name     string
	Selector Selector
	Inputs   Params
	Outputs  Params
}

/*
Resolves the parameter lists (see "ResolveParams") and builds a function. A
zero selector is derived from the canonical signature via "SelectorOf";
otherwise the given one is used as-is.
*/
func NewFunction(name string, selector Selector, inputs, outputs []Param) (Function, error) {
	in, err := ResolveParams(inputs...)
	if err != nil {
		return Function{}, errors.Wrapf(err, `invalid inputs of function %q`, name)
	}
	out, err := ResolveParams(outputs...)
	if err != nil {
		return Function{}, errors.Wrapf(err, `invalid outputs of function %q`, name)
	}

	fun := Function{Name: name, Selector: selector, Inputs: in, Outputs: out}
	if selector == ZeroSelector {
		fun.Selector = SelectorOf(fun.Signature())
	}
	return fun, nil
}

// Version of "NewFunction" that panics on error. Convenient for initializing
// global variables, including generated code.
func MustNewFunction(name string, selector Selector, inputs, outputs []Param) Function {
	out, err := NewFunction(name, selector, inputs, outputs)
	if err != nil {
		panic(err)
	}
	return out
}

/*
Builds a function whose inputs and outputs are both described by the tagged
fields of the given struct; see "StructParams". The same struct type can then
be used to encode requests and to receive decoded output.
*/
func FunctionOf(name string, selector Selector, proto interface{}) (Function, error) {
	params, err := StructParams(proto)
	if err != nil {
		return Function{}, err
	}
	return NewFunction(name, selector, params, params)
}

// Version of "FunctionOf" that panics on error. Convenient for initializing
// global variables.
func MustFunctionOf(name string, selector Selector, proto interface{}) Function {
	out, err := FunctionOf(name, selector, proto)
	if err != nil {
		panic(err)
	}
	return out
}

// Canonical signature, such as "transfer(address,uint256)".
func (self Function) Signature() string {
	return self.Inputs.Signature(self.Name)
}

/*
ABI-encodes the inputs, read from the source via the parameter getters, and
prepends the selector. The result is the call data for a transaction or
"eth_call".
*/
func (self Function) MarshalRequest(src interface{}) ([]byte, error) {
	args, err := self.Inputs.extract(src)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to encode request for %q`, self.Name)
	}
	return self.Marshal(args...)
}

// Same as "MarshalRequest", but returns lowercase hex prefixed with "0x".
func (self Function) EncodeRequest(src interface{}) (string, error) {
	out, err := self.MarshalRequest(src)
	if err != nil {
		return "", err
	}
	return HexEncode(out), nil
}

/*
ABI-encodes the arguments, which must exactly match the function's inputs, and
prepends the selector. Doesn't need parameter accessors.
*/
func (self Function) Marshal(args ...interface{}) ([]byte, error) {
	out, err := appendArgs(self.Selector[:len(self.Selector):len(self.Selector)], self.Inputs.Types(), args)
	if err != nil {
		return nil, errors.Wrapf(err, `failed to encode arguments of %q`, self.Name)
	}
	return out, nil
}

/*
Decodes call data produced by "MarshalRequest": verifies and strips the
selector, then writes the inputs into the destination via the parameter setters.
*/
func (self Function) UnmarshalRequest(input []byte, dst interface{}) error {
	selector, body, err := splitSelector(input)
	if err != nil {
		return err
	}
	if selector != self.Selector {
		return errors.Errorf(`call data doesn't appear to call %q: selector %v, expected %v`,
			self.Name, selector, self.Selector)
	}
	return decodeInto(self.Name, self.Inputs, body, dst)
}

// Same as "UnmarshalRequest", but accepts hex input. The "0x" prefix is optional.
func (self Function) DecodeRequest(input string, dst interface{}) error {
	raw, err := HexDecode(input)
	if err != nil {
		return err
	}
	return self.UnmarshalRequest(raw, dst)
}

/*
Decodes return data, which carries no selector, into the destination via the
output parameter setters. The destination must be a pointer.
*/
func (self Function) UnmarshalOutput(input []byte, dst interface{}) error {
	return decodeInto(self.Name, self.Outputs, input, dst)
}

// Same as "UnmarshalOutput", but accepts hex input. The "0x" prefix is optional.
func (self Function) DecodeOutputInto(input string, dst interface{}) error {
	raw, err := HexDecode(input)
	if err != nil {
		return err
	}
	return self.UnmarshalOutput(raw, dst)
}

/*
Decodes return data into positional outputs, which must exactly match the
function's outputs. The outputs must be pointers. Doesn't need parameter
accessors.
*/
func (self Function) Unmarshal(input []byte, outs ...interface{}) error {
	if len(outs) != len(self.Outputs) {
		return errors.WithStack(FieldCountMismatchError{Want: len(self.Outputs), Got: len(outs)})
	}

	targets := make([]reflect.Value, len(outs))
	for i, out := range outs {
		val := reflect.ValueOf(out)
		if val.Kind() != reflect.Ptr || val.IsNil() {
			return errors.Errorf(`can't unmarshal output %v of %q into non-pointer of type %T`, i, self.Name, out)
		}
		targets[i] = val.Elem()
	}

	values, err := DecodeArgs(self.Outputs.Types(), input)
	if err != nil {
		return errors.Wrapf(err, `failed to decode output of %q`, self.Name)
	}

	// Outputs are only written once every value has been converted.
	staged := make([]reflect.Value, len(targets))
	for i, target := range targets {
		staged[i] = reflect.New(target.Type()).Elem()
		staged[i].Set(target)
		err := assign(staged[i], self.Outputs[i].Type, values[i])
		if err != nil {
			return errors.Wrapf(err, `failed to assign output %v of %q`, i, self.Name)
		}
	}
	for i, target := range targets {
		target.Set(staged[i])
	}
	return nil
}

// True if the call data starts with this function's selector.
func (self Function) Matches(input []byte) bool {
	return bytes.HasPrefix(input, self.Selector[:])
}

/*
Decodes hex return data into a newly allocated T, using the function's output
parameters. The "0x" prefix is optional.

	out, err := ethabi.DecodeOutput[Balances](fun, "0x...")
*/
func DecodeOutput[T any](fun Function, input string) (*T, error) {
	out := new(T)
	err := fun.DecodeOutputInto(input, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeInto(name string, params Params, input []byte, dst interface{}) error {
	values, err := DecodeArgs(params.Types(), input)
	if err != nil {
		return errors.Wrapf(err, `failed to decode %q`, name)
	}

	stage, commit := stageDestination(dst)
	err = params.inject(stage, values)
	if err != nil {
		return errors.Wrapf(err, `failed to decode %q`, name)
	}
	commit()
	return nil
}

/*
Returns a copy of the destination for the setters to write into, and a function
that copies the result back. The destination is left untouched unless "commit"
is called. Pointers are staged through a copy of their target, maps through a
shallow clone. Other destinations are written directly.
*/
func stageDestination(dst interface{}) (interface{}, func()) {
	val := reflect.ValueOf(dst)

	switch {
	case val.Kind() == reflect.Ptr && !val.IsNil():
		stage := reflect.New(val.Elem().Type())
		stage.Elem().Set(val.Elem())
		return stage.Interface(), func() { val.Elem().Set(stage.Elem()) }

	case val.Kind() == reflect.Map && !val.IsNil():
		stage := reflect.MakeMapWithSize(val.Type(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			stage.SetMapIndex(iter.Key(), iter.Value())
		}
		return stage.Interface(), func() {
			iter := stage.MapRange()
			for iter.Next() {
				val.SetMapIndex(iter.Key(), iter.Value())
			}
		}

	default:
		return dst, func() {}
	}
}
