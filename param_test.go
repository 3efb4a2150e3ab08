package ethabi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramNames(params Params) []string {
	out := make([]string, len(params))
	for i, param := range params {
		out[i] = param.Name
	}
	return out
}

func paramOrdinals(params Params) []int {
	out := make([]int, len(params))
	for i, param := range params {
		out[i] = param.Ordinal
	}
	return out
}

func TestResolveParams(t *testing.T) {
	str := MustParseType("string")
	nums := MustParseType("uint[20]")

	params, err := ResolveParams(
		Param{Name: "A", Type: str},
		Param{Name: "b", Type: nums, Ordinal: 2},
		Param{Name: "C", Type: str, Ordinal: 3},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "b", "C"}, paramNames(params))
	assert.Equal(t, []int{0, 1, 2}, paramOrdinals(params))
	assert.Equal(t, "test(string,uint256[20],string)", params.Signature("test"))
}

func TestResolveParamsReorder(t *testing.T) {
	typ := MustParseType("bool")

	params, err := ResolveParams(
		Param{Name: "x", Type: typ, Ordinal: 5},
		Param{Name: "y", Type: typ},
		Param{Name: "z", Type: typ, Ordinal: 3},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z", "x"}, paramNames(params))
	assert.Equal(t, []int{0, 1, 2}, paramOrdinals(params))
}

func TestResolveParamsDuplicate(t *testing.T) {
	typ := MustParseType("bool")

	_, err := ResolveParams(
		Param{Name: "A", Type: typ},
		Param{Name: "B", Type: typ},
		Param{Name: "C", Type: typ, Ordinal: 1},
	)

	var dup DuplicateOrdinalError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, DuplicateOrdinalError{Ordinal: 1, Names: [2]string{"B", "C"}}, dup)

	assert.Panics(t, func() {
		MustResolveParams(Param{Name: "A", Type: typ, Ordinal: 2}, Param{Name: "B", Type: typ, Ordinal: 2})
	})
}

func TestResolveParamsInvalid(t *testing.T) {
	_, err := ResolveParams(Param{Name: "A"})
	require.Error(t, err)

	_, err = ResolveParams(Param{Name: "A", Type: MustParseType("bool"), Ordinal: -1})
	require.Error(t, err)
}

func TestResolveParamsDoesNotMutateInput(t *testing.T) {
	input := []Param{
		{Name: "A", Type: MustParseType("bool"), Ordinal: 7},
	}
	params := MustResolveParams(input...)
	assert.Equal(t, 0, params[0].Ordinal)
	assert.Equal(t, 7, input[0].Ordinal)
}

func TestParamsLookup(t *testing.T) {
	params := MustStructParams(testMulti{})

	param, ok := params.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 1, param.Ordinal)
	assert.Equal(t, "uint256[20]", param.Type.Canonical)

	_, ok = params.Lookup("B")
	assert.False(t, ok)

	assert.Equal(t, MustParseTypes("string", "uint[20]", "string"), params.Types())
}

func TestParamsCustomAccessors(t *testing.T) {
	field := func(name string, typ string) Param {
		return Param{
			Name: name,
			Type: MustParseType(typ),
			Get: func(src interface{}) (interface{}, error) {
				return src.(map[string]interface{})[name], nil
			},
			Set: func(dst interface{}, value interface{}) error {
				dst.(map[string]interface{})[name] = value
				return nil
			},
		}
	}

	fun := MustNewFunction("send", ZeroSelector,
		[]Param{field("to", "address"), field("memo", "string")},
		[]Param{field("ok", "bool")},
	)

	addr := MustParseAddress(testAddressHex)
	data, err := fun.MarshalRequest(map[string]interface{}{"to": addr, "memo": "hi"})
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	require.NoError(t, fun.UnmarshalRequest(data, decoded))
	assert.Equal(t, map[string]interface{}{"to": addr, "memo": "hi"}, decoded)

	output := map[string]interface{}{}
	require.NoError(t, fun.UnmarshalOutput(MustHexDecode(leftWord("1")), output))
	assert.Equal(t, true, output["ok"])
}

func TestParamsMissingAccessors(t *testing.T) {
	fun := MustNewFunction("ping", ZeroSelector,
		[]Param{{Name: "a", Type: MustParseType("bool")}},
		[]Param{{Name: "b", Type: MustParseType("bool")}},
	)

	_, err := fun.MarshalRequest(struct{}{})
	require.Error(t, err)

	err = fun.UnmarshalOutput(MustHexDecode(leftWord("1")), &struct{}{})
	require.Error(t, err)

	// Positional use doesn't need accessors.
	data, err := fun.Marshal(true)
	require.NoError(t, err)
	assert.Equal(t, "0x"+SelectorOf("ping(bool)").String()[2:]+leftWord("1"), HexEncode(data))
}
