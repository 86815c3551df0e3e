// Command embossc runs the semantic middle end and C++ header
// generator over a JSON IR document (spec.md §6's "between front end
// and back end" wire format) and writes the resulting header to disk.
// It corresponds to `emboss_codegen_cpp` in spec.md §6's CLI surface,
// except it also drives the middle-end passes (attribute
// normalization through write-method inference) rather than assuming
// they have already run, since this repo implements both.
//
// Grounded on cmd/malphas/main.go's command-dispatch and
// diagnostic-printing structure, and on
// _examples/saferwall-pe/cmd/pedumper.go's cobra root+subcommand
// idiom (a bare root Run, one real subcommand, flags read with
// cmd.Flags().GetString).
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/emboss-project/embossc/internal/codegen/cpp"
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/pipeline"
)

func loadProgram(path string) (*ir.Ir, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var program ir.Ir
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, errors.Wrapf(err, "decoding IR from %s", path)
	}
	return &program, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputFile, err := cmd.Flags().GetString("input-file")
	if err != nil {
		return err
	}
	outputFile, err := cmd.Flags().GetString("output-file")
	if err != nil {
		return err
	}
	namespaceFallback, err := cmd.Flags().GetString("namespace-fallback")
	if err != nil {
		return err
	}
	emitEnumTraits, err := cmd.Flags().GetBool("enum-traits")
	if err != nil {
		return err
	}

	log.Printf("compiling %s", inputFile)

	program, err := loadProgram(inputFile)
	if err != nil {
		return err
	}

	formatter := diag.NewFormatter(os.Stderr, inputFile)

	if result := pipeline.Run(program); !result.Ok() {
		log.Printf("%s stage reported %d diagnostic(s)", result.Stage, len(result.Diagnostics))
		formatter.FormatAll(result.Diagnostics)
		return errors.New("semantic analysis failed")
	}

	opts := cpp.DefaultOptions()
	opts.EmitEnumTraits = emitEnumTraits
	opts.NamespaceFallback = namespaceFallback

	header, errs := cpp.Generate(program, opts)
	if len(errs) != 0 {
		log.Printf("codegen reported %d diagnostic(s)", len(errs))
		formatter.FormatAll(errs)
		return errors.New("code generation failed")
	}

	if err := os.WriteFile(outputFile, []byte(header), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outputFile)
	}
	log.Printf("wrote %s", outputFile)
	return nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "embossc",
		Short: "Emboss semantic middle end and C++ header generator",
	}

	build := &cobra.Command{
		Use:   "build",
		Short: "Run the semantic passes over a JSON IR and emit a C++ header",
		RunE:  runBuild,
	}
	build.Flags().String("input-file", "", "path to the JSON IR document (required)")
	build.Flags().String("output-file", "", "path to write the generated C++ header to (required)")
	build.Flags().String("namespace-fallback", "", "C++ namespace to use when a module declares no (cpp) namespace attribute")
	build.Flags().Bool("enum-traits", true, "emit TryToGetEnumFromName/TryToGetNameFromEnum/EnumIsKnown and text-format methods")
	build.MarkFlagRequired("input-file")
	build.MarkFlagRequired("output-file")

	root.AddCommand(build)
	return root
}

func main() {
	log.SetFlags(0)
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
