// White-box (package main, not main_test): a main package cannot be
// imported by an external test package, so this is the one place in
// the repo that departs from the _test-suffix convention used
// everywhere else.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const minimalIR = `{
  "module": [
    {
      "source_file_name": "widget.emb",
      "type": [
        {
          "name": {"name": {"object_path": ["Widget"]}},
          "addressable_unit": "BYTE",
          "definition_kind": "STRUCTURE",
          "structure": {
            "field": [
              {
                "name": {"name": {"object_path": ["Widget", "n"]}},
                "type": {
                  "atomic_type": {"reference": {"source_name": ["UInt"], "canonical_name": {"object_path": ["UInt"]}, "resolved": true}},
                  "size_in_bits": {"constant": {"value": "8"}}
                },
                "location": {"start": {"constant": {"value": "0"}}, "size": {"constant": {"value": "8"}}},
                "write_method": {"kind": "PHYSICAL"}
              }
            ]
          }
        }
      ]
    }
  ]
}`

func newBuildCmd(t *testing.T, inputFile, outputFile string) *cobra.Command {
	t.Helper()
	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"build",
		"--input-file", inputFile,
		"--output-file", outputFile,
	})
	return cmd
}

func TestBuildProducesHeaderForValidIR(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "widget.ir.json")
	outputFile := filepath.Join(dir, "widget.h")
	if err := os.WriteFile(inputFile, []byte(minimalIR), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := newBuildCmd(t, inputFile, outputFile)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	header, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(header), "class Widget") {
		t.Errorf("expected generated header to declare class Widget, got:\n%s", header)
	}
	if !strings.Contains(string(header), "#ifndef WIDGET_EMB_H_") {
		t.Errorf("expected header guard, got:\n%s", header)
	}
}

func TestBuildFailsOnMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "bad.ir.json")
	outputFile := filepath.Join(dir, "bad.h")
	if err := os.WriteFile(inputFile, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := newBuildCmd(t, inputFile, outputFile)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error decoding malformed JSON")
	}
	if _, err := os.Stat(outputFile); err == nil {
		t.Errorf("expected no output file to be written on failure")
	}
}

func TestBuildFailsOnMissingInputFile(t *testing.T) {
	dir := t.TempDir()
	cmd := newBuildCmd(t, filepath.Join(dir, "does-not-exist.json"), filepath.Join(dir, "out.h"))
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error reading a missing input file")
	}
}

func TestBuildSurfacesDiagnosticsOnTypeError(t *testing.T) {
	const badIR = `{
  "module": [
    {
      "source_file_name": "bad.emb",
      "type": [
        {
          "name": {"name": {"object_path": ["E"]}},
          "addressable_unit": "BYTE",
          "definition_kind": "ENUM",
          "enum": {
            "value": [
              {
                "name": {"name": {"object_path": ["E", "X"]}},
                "value": {"function": {"function": "ADDITION", "args": [
                  {"constant": {"value": "1"}},
                  {"boolean_constant": {"value": true}}
                ]}}
              }
            ],
            "maximum_bits": 8
          }
        }
      ]
    }
  ]
}`
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "bad.ir.json")
	outputFile := filepath.Join(dir, "bad.h")
	if err := os.WriteFile(inputFile, []byte(badIR), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := newBuildCmd(t, inputFile, outputFile)
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected a type-check error to fail the build")
	}
	if _, err := os.Stat(outputFile); err == nil {
		t.Errorf("expected no output file to be written on a semantic-analysis failure")
	}
}
