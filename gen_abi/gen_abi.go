/*
A CLI tool that reads JSON ABI definitions and outputs Go code: for every
function, a tagged struct for its inputs, another for its outputs, its selector,
and a ready-to-use "ethabi.Function". Obtain the JSON ABI from a Solidity
compiler:

	solc --abi MyContract.sol

Installation:

	go install github.com/purelabio/ethabi/gen_abi@latest

Example usage:

	gen_abi --help
	gen_abi --out gen_contracts.go --pkg contracts build/MyContract.abi

To use with "go generate", include a "go:generate" comment in your source code:

	//go:generate gen_abi --out gen_contracts.go build/MyContract.abi

The generated code doesn't contain any function calls beyond building the
function definitions, and has negligible impact on program startup.
*/
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"strings"
	"text/template"
	"unicode"

	"github.com/Mitranim/repr"
	"github.com/pkg/errors"
	"github.com/purelabio/ethabi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	out     string
	pkg     string
	self    bool
	verbose bool
}

var codeTemplate = template.Must(template.New("").
	Funcs(template.FuncMap{
		"repr": reprString,
	}).
	Parse(`package {{.Pkg}}

import (
{{- if .NeedsBig}}
	"math/big"
{{- end}}
{{- if not .Self}}

	"github.com/purelabio/ethabi"
{{- end}}
)
{{range .Funcs}}
// {{.Ident}}Input holds the inputs of "{{.Signature}}".
type {{.Ident}}Input struct {
{{- range .Inputs}}
	{{.Field}} {{.GoType}} ` + "`" + `abi:"{{.Tag}}"` + "`" + `
{{- end}}
}

// {{.Ident}}Output holds the outputs of "{{.Signature}}".
type {{.Ident}}Output struct {
{{- range .Outputs}}
	{{.Field}} {{.GoType}} ` + "`" + `abi:"{{.Tag}}"` + "`" + `
{{- end}}
}

var {{.Ident}}Selector = {{$.Prefix}}Selector({{.Selector | repr}})

var {{.Ident}}Function = {{$.Prefix}}MustNewFunction(
	"{{.Name}}",
	{{.Ident}}Selector,
	{{$.Prefix}}MustStructParams({{.Ident}}Input{}),
	{{$.Prefix}}MustStructParams({{.Ident}}Output{}),
)
{{end}}`))

type genFile struct {
	Pkg      string
	Prefix   string
	Self     bool
	NeedsBig bool
	Funcs    []genFunc
}

type genFunc struct {
	Name      string
	Ident     string
	Signature string
	Selector  [4]byte
	Inputs    []genField
	Outputs   []genField
}

type genField struct {
	Field  string
	GoType string
	Tag    string
}

func main() {
	err := newCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "gen_abi [flags] <abi.json>",
		Short: "Generate Go bindings for the functions of a JSON ABI definition",
		Example: `  gen_abi --out gen_contracts.go build/Test.abi
  gen_abi --out gen_contracts.go --pkg contracts build/Token.abi`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.out, "out", "", "output path for the generated Go file (required)")
	flags.StringVar(&opts.pkg, "pkg", "main", "package name for the generated code")
	flags.BoolVar(&opts.self, "self", false, "generate without imports or package prefixes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func run(opts options, abiPath string) error {
	log := zap.NewNop()
	if opts.verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		defer log.Sync()
		ethabi.SetLogger(log)
	}

	input, err := os.ReadFile(abiPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read %q", abiPath)
	}

	abi, err := ethabi.ParseAbiJson(input)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %q", abiPath)
	}
	log.Info("parsed ABI definition", zap.String("path", abiPath), zap.Int("functions", len(abi)))

	source, err := generate(abi, opts.pkg, opts.self)
	if err != nil {
		return err
	}

	const readWriteMode = os.FileMode(0600)
	err = os.WriteFile(opts.out, source, readWriteMode)
	if err != nil {
		return errors.Wrapf(err, "failed to write %q", opts.out)
	}
	log.Info("wrote bindings", zap.String("path", opts.out), zap.Int("bytes", len(source)))
	return nil
}

// Renders and gofmts the bindings for every function of the ABI.
func generate(abi ethabi.Abi, pkg string, self bool) ([]byte, error) {
	file := genFile{Pkg: pkg, Self: self}
	if !self {
		file.Prefix = "ethabi."
	}

	idents := map[string]bool{}
	for _, fun := range abi {
		gen := genFunc{
			Name:      fun.Name,
			Ident:     uniqueIdent(idents, exportedIdent(fun.Name, "Func")),
			Signature: fun.Signature(),
			Selector:  fun.Selector,
		}
		gen.Inputs = genFields(&file, fun.Inputs)
		gen.Outputs = genFields(&file, fun.Outputs)
		file.Funcs = append(file.Funcs, gen)
	}

	var buf bytes.Buffer
	err := codeTemplate.Execute(&buf, file)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render bindings")
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "generated invalid Go code:\n%s", buf.Bytes())
	}
	return source, nil
}

func genFields(file *genFile, params ethabi.Params) []genField {
	names := map[string]bool{}
	out := make([]genField, len(params))

	for i, param := range params {
		field := uniqueIdent(names, exportedIdent(param.Name, fmt.Sprintf("Arg%d", i)))
		tag := param.Type.Raw
		if param.Name != "" && param.Name != field {
			tag += ",name=" + param.Name
		}

		goType, needsBig := goTypeOf(param.Type, file.Prefix)
		file.NeedsBig = file.NeedsBig || needsBig

		out[i] = genField{Field: field, GoType: goType, Tag: tag}
	}
	return out
}

/*
Picks the Go type a decoded value of the given ABI type is assigned to. Integers
up to 64 bits use the smallest fitting builtin; wider ones use *big.Int.
*/
func goTypeOf(typ *ethabi.Type, prefix string) (string, bool) {
	switch typ.Kind {
	case ethabi.KindBool:
		return "bool", false
	case ethabi.KindInt:
		if typ.Bits > 64 {
			return "*big.Int", true
		}
		name := "int"
		if !typ.Signed {
			name = "uint"
		}
		return name + fmt.Sprint(intWidth(typ.Bits)), false
	case ethabi.KindAddress:
		return prefix + "Address", false
	case ethabi.KindFixedBytes:
		return fmt.Sprintf("[%d]byte", typ.Len), false
	case ethabi.KindBytes:
		return "[]byte", false
	case ethabi.KindString:
		return "string", false
	case ethabi.KindFixedArray:
		elem, needsBig := goTypeOf(typ.Elem, prefix)
		return fmt.Sprintf("[%d]%v", typ.Len, elem), needsBig
	case ethabi.KindArray:
		elem, needsBig := goTypeOf(typ.Elem, prefix)
		return "[]" + elem, needsBig
	default:
		return "interface{}", false
	}
}

func intWidth(bits int) int {
	for _, width := range []int{8, 16, 32} {
		if bits <= width {
			return width
		}
	}
	return 64
}

// Converts an ABI name such as "_from" or "token_id" into "From" or "TokenId".
func exportedIdent(name string, fallback string) string {
	var buf strings.Builder
	upper := true
	for _, char := range name {
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) {
			upper = true
			continue
		}
		if upper {
			char = unicode.ToUpper(char)
			upper = false
		}
		buf.WriteRune(char)
	}

	out := buf.String()
	if out == "" {
		return fallback
	}
	if unicode.IsDigit(rune(out[0])) {
		return fallback + out
	}
	return out
}

func uniqueIdent(used map[string]bool, ident string) string {
	out := ident
	for i := 1; used[out]; i++ {
		out = fmt.Sprintf("%v%d", ident, i)
	}
	used[out] = true
	return out
}

func reprString(val interface{}) string {
	return repr.String(val)
}
