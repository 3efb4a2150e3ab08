package ethabi

import (
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInt struct {
	A int `abi:"int"`
}

type testMulti struct {
	A string     `abi:"string"`
	B []*big.Int `abi:"uint[20],name=b,pos=2"`
	C string     `abi:"string,pos=3"`
}

var (
	testSelector  = MustParseSelector("c6888fa1")
	testIntFunc   = MustFunctionOf("test", testSelector, testInt{})
	testMultiFunc = MustFunctionOf("test", testSelector, testMulti{})
)

// Parameter encoding of a "testMulti" holding "hello", 234567..234586 and
// "world".
const testMultiParams = `00000000000000000000000000000000000000000000000000000000000002c0000000000000000000000000000000000000000000000000000000000003944700000000000000000000000000000000000000000000000000000000000394480000000000000000000000000000000000000000000000000000000000039449000000000000000000000000000000000000000000000000000000000003944a000000000000000000000000000000000000000000000000000000000003944b000000000000000000000000000000000000000000000000000000000003944c000000000000000000000000000000000000000000000000000000000003944d000000000000000000000000000000000000000000000000000000000003944e000000000000000000000000000000000000000000000000000000000003944f0000000000000000000000000000000000000000000000000000000000039450000000000000000000000000000000000000000000000000000000000003945100000000000000000000000000000000000000000000000000000000000394520000000000000000000000000000000000000000000000000000000000039453000000000000000000000000000000000000000000000000000000000003945400000000000000000000000000000000000000000000000000000000000394550000000000000000000000000000000000000000000000000000000000039456000000000000000000000000000000000000000000000000000000000003945700000000000000000000000000000000000000000000000000000000000394580000000000000000000000000000000000000000000000000000000000039459000000000000000000000000000000000000000000000000000000000003945a0000000000000000000000000000000000000000000000000000000000000300000000000000000000000000000000000000000000000000000000000000000568656c6c6f0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000005776f726c64000000000000000000000000000000000000000000000000000000`

func testMultiInput() testMulti {
	nums := make([]*big.Int, 20)
	for i := range nums {
		nums[i] = big.NewInt(int64(i + 234567))
	}
	return testMulti{A: "hello", B: nums, C: "world"}
}

func TestEncodeRequestInt(t *testing.T) {
	out, err := testIntFunc.EncodeRequest(testInt{A: 69})
	require.NoError(t, err)
	assert.Equal(t, "0xc6888fa1"+leftWord("45"), out)

	out, err = testIntFunc.EncodeRequest(&testInt{A: 69})
	require.NoError(t, err)
	assert.Equal(t, "0xc6888fa1"+leftWord("45"), out)

	assert.Equal(t, "test(int256)", testIntFunc.Signature())
}

func TestEncodeRequestMulti(t *testing.T) {
	out, err := testMultiFunc.EncodeRequest(testMultiInput())
	require.NoError(t, err)
	assert.Equal(t, "0xc6888fa1"+testMultiParams, out)

	head := strings.TrimPrefix(out, "0xc6888fa1")
	assert.Equal(t, leftWord("2c0"), head[:64])
	assert.Equal(t, leftWord("300"), head[21*64:22*64])

	assert.Equal(t, "test(string,uint256[20],string)", testMultiFunc.Signature())
}

func TestEncodeRequestMultiArity(t *testing.T) {
	input := testMultiInput()
	input.B = input.B[:19]

	_, err := testMultiFunc.EncodeRequest(input)
	var arity ArityMismatchError
	require.ErrorAs(t, err, &arity)
	assert.Equal(t, 20, arity.Want)
	assert.Equal(t, 19, arity.Got)
}

func TestDecodeOutputMulti(t *testing.T) {
	out, err := DecodeOutput[testMulti](testMultiFunc, "0x"+testMultiParams)
	require.NoError(t, err)

	assert.Equal(t, "hello", out.A)
	assert.Equal(t, "world", out.C)
	require.Len(t, out.B, 20)
	for i, num := range out.B {
		assert.Equal(t, int64(i+234567), num.Int64())
	}

	// Prefix is optional.
	again, err := DecodeOutput[testMulti](testMultiFunc, testMultiParams)
	require.NoError(t, err)
	assert.Equal(t, out.A, again.A)
}

func TestDecodeOutputMalformed(t *testing.T) {
	_, err := DecodeOutput[testMulti](testMultiFunc, "0x"+testMultiParams[:640])
	var count FieldCountMismatchError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, FieldCountMismatchError{Want: 3, Got: 1}, count)

	_, err = DecodeOutput[testMulti](testMultiFunc, "0x"+testMultiParams[:22*64])
	var rangeErr DecodeRangeError
	require.ErrorAs(t, err, &rangeErr)

	_, err = DecodeOutput[testMulti](testMultiFunc, "0xzz")
	require.Error(t, err)
}

func TestDecodeRequest(t *testing.T) {
	input := testMultiInput()
	encoded, err := testMultiFunc.EncodeRequest(input)
	require.NoError(t, err)

	var out testMulti
	require.NoError(t, testMultiFunc.DecodeRequest(encoded, &out))
	assert.Equal(t, input.A, out.A)
	assert.Equal(t, input.C, out.C)
	require.Len(t, out.B, len(input.B))
	for i := range input.B {
		assert.Equal(t, 0, input.B[i].Cmp(out.B[i]))
	}

	err = testMultiFunc.DecodeRequest(encoded, out)
	require.Error(t, err)

	err = testMultiFunc.DecodeRequest("0x12345678"+testMultiParams, &out)
	require.Error(t, err)

	err = testMultiFunc.DecodeRequest("0xc688", &out)
	var rangeErr DecodeRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestFunctionMatches(t *testing.T) {
	data, err := testIntFunc.MarshalRequest(testInt{A: 1})
	require.NoError(t, err)
	assert.True(t, testIntFunc.Matches(data))
	assert.False(t, testIntFunc.Matches(data[:3]))
	assert.False(t, testIntFunc.Matches([]byte{0xa9, 0x05, 0x9c, 0xbb}))
}

func TestNewFunctionDerivesSelector(t *testing.T) {
	fun, err := NewFunction("transfer", ZeroSelector, []Param{
		{Name: "to", Type: MustParseType("address")},
		{Name: "value", Type: MustParseType("uint")},
	}, []Param{
		{Type: MustParseType("bool")},
	})
	require.NoError(t, err)

	assert.Equal(t, "transfer(address,uint256)", fun.Signature())
	assert.Equal(t, MustParseSelector("a9059cbb"), fun.Selector)
	assert.Equal(t, MustParseSelector("a9059cbb"), SelectorOf("transfer(address,uint256)"))
	assert.Equal(t, MustParseSelector("70a08231"), SelectorOf("balanceOf(address)"))
}

func TestNewFunctionInvalid(t *testing.T) {
	_, err := NewFunction("bad", ZeroSelector, []Param{
		{Name: "a", Type: MustParseType("bool"), Ordinal: 1},
		{Name: "b", Type: MustParseType("bool"), Ordinal: 1},
	}, nil)
	var dup DuplicateOrdinalError
	require.ErrorAs(t, err, &dup)

	_, err = NewFunction("bad", ZeroSelector, nil, []Param{{Name: "a"}})
	require.Error(t, err)

	assert.Panics(t, func() {
		MustNewFunction("bad", ZeroSelector, []Param{{Name: "a"}}, nil)
	})
	assert.Panics(t, func() { MustFunctionOf("bad", ZeroSelector, 12) })
}

func TestFunctionPositional(t *testing.T) {
	fun := MustNewFunction("swap", ZeroSelector, []Param{
		{Name: "amount", Type: MustParseType("uint256")},
		{Name: "path", Type: MustParseType("address[]")},
		{Name: "memo", Type: MustParseType("string")},
	}, []Param{
		{Name: "out", Type: MustParseType("uint256")},
		{Name: "ok", Type: MustParseType("bool")},
		{Name: "note", Type: MustParseType("bytes")},
	})

	addr := MustParseAddress(testAddressHex)
	data, err := fun.Marshal(uint256.NewInt(1000), []Address{addr, ZeroAddress}, "memo")
	require.NoError(t, err)
	assert.True(t, fun.Matches(data))
	assert.Zero(t, (len(data)-len(fun.Selector))%wordSize)

	_, err = fun.Marshal(1000)
	var count FieldCountMismatchError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, FieldCountMismatchError{Want: 3, Got: 1}, count)

	ret, err := EncodeArgs(fun.Outputs.Types(), 1234, true, []byte("note"))
	require.NoError(t, err)

	var (
		amount uint64
		ok     bool
		note   string
	)
	require.NoError(t, fun.Unmarshal(ret, &amount, &ok, &note))
	assert.Equal(t, uint64(1234), amount)
	assert.True(t, ok)
	assert.Equal(t, "note", note)

	var small uint8
	err = fun.Unmarshal(ret, &small, &ok, &note)
	var overflow OverflowError
	require.ErrorAs(t, err, &overflow)

	err = fun.Unmarshal(ret, &amount, &ok)
	require.ErrorAs(t, err, &count)

	err = fun.Unmarshal(ret, amount, &ok, &note)
	require.Error(t, err)
}

func TestDecodeOutputFailureLeavesDestination(t *testing.T) {
	type output struct {
		A string `abi:"string"`
		B uint8  `abi:"uint256"`
	}
	fun := MustFunctionOf("pair", ZeroSelector, output{})

	ret, err := EncodeArgs(MustParseTypes("string", "uint256"), "hello", 300)
	require.NoError(t, err)

	dst := output{A: "original", B: 7}
	err = fun.UnmarshalOutput(ret, &dst)
	var overflow OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, output{A: "original", B: 7}, dst)

	err = fun.DecodeOutputInto(HexEncode(ret), &dst)
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, output{A: "original", B: 7}, dst)

	ret, err = EncodeArgs(MustParseTypes("string", "uint256"), "hello", 200)
	require.NoError(t, err)
	require.NoError(t, fun.UnmarshalOutput(ret, &dst))
	assert.Equal(t, output{A: "hello", B: 200}, dst)
}

func TestDecodeRequestFailureLeavesMap(t *testing.T) {
	field := func(name string, typ string) Param {
		return Param{
			Name: name,
			Type: MustParseType(typ),
			Set: func(dst interface{}, value interface{}) error {
				if name == "reject" {
					return errors.New("rejected")
				}
				dst.(map[string]interface{})[name] = value
				return nil
			},
		}
	}
	fun := MustNewFunction("note", ZeroSelector,
		[]Param{field("memo", "string"), field("reject", "bool")}, nil)

	data, err := fun.Marshal("hi", true)
	require.NoError(t, err)

	dst := map[string]interface{}{"memo": "original"}
	require.Error(t, fun.UnmarshalRequest(data, dst))
	assert.Equal(t, map[string]interface{}{"memo": "original"}, dst)
}

func TestFunctionUnmarshalFailureLeavesOutputs(t *testing.T) {
	fun := MustNewFunction("pair", ZeroSelector, nil, []Param{
		{Name: "note", Type: MustParseType("string")},
		{Name: "amount", Type: MustParseType("uint256")},
	})

	ret, err := EncodeArgs(fun.Outputs.Types(), "hello", 300)
	require.NoError(t, err)

	note, amount := "original", uint8(7)
	err = fun.Unmarshal(ret, &note, &amount)
	var overflow OverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, "original", note)
	assert.Equal(t, uint8(7), amount)

	err = fun.Unmarshal(ret, &note, nil)
	require.Error(t, err)
	assert.Equal(t, "original", note)
}

func TestFunctionMarshalDoesNotAliasSelector(t *testing.T) {
	first, err := testIntFunc.Marshal(1)
	require.NoError(t, err)
	second, err := testIntFunc.Marshal(2)
	require.NoError(t, err)

	first[0] = 0
	assert.Equal(t, testSelector[:], second[:4])
	assert.Equal(t, testSelector, testIntFunc.Selector)
}

func TestFunctionConcurrent(t *testing.T) {
	input := testMultiInput()
	const workers = 8
	results := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := testMultiFunc.EncodeRequest(input)
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for _, out := range results {
		assert.Equal(t, "0xc6888fa1"+testMultiParams, out)
	}
}
