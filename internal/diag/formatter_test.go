package diag_test

import (
	"strings"
	"testing"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

func TestFormatUsesDefaultFileWhenDiagnosticHasNone(t *testing.T) {
	var buf strings.Builder
	f := diag.NewFormatter(&buf, "widget.emb")

	loc := ir.Location{Start: ir.Position{Line: 3, Column: 5}}
	d := diag.Errorf(diag.StageTypeCheck, diag.CodeTypeMismatch, loc, "operand must be an integer")
	f.Format(d)

	out := buf.String()
	if !strings.Contains(out, "error[TYPE_MISMATCH]: operand must be an integer\n") {
		t.Errorf("missing header, got:\n%s", out)
	}
	if !strings.Contains(out, "  --> widget.emb:3:5\n") {
		t.Errorf("missing location line, got:\n%s", out)
	}
}

func TestFormatPrefersDiagnosticOwnFile(t *testing.T) {
	var buf strings.Builder
	f := diag.NewFormatter(&buf, "widget.emb")

	loc := ir.Location{Start: ir.Position{Line: 1, Column: 1}}
	d := diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, loc, "unknown name %q", "Foo")
	d.File = "imported.emb"
	f.Format(d)

	if !strings.Contains(buf.String(), "  --> imported.emb:1:1\n") {
		t.Errorf("expected diagnostic's own File to win, got:\n%s", buf.String())
	}
}

func TestFormatPrintsNotesWithTheirOwnLocation(t *testing.T) {
	var buf strings.Builder
	f := diag.NewFormatter(&buf, "widget.emb")

	loc := ir.Location{Start: ir.Position{Line: 3, Column: 5}}
	noteLoc := ir.Location{Start: ir.Position{Line: 9, Column: 1}}
	d := diag.Errorf(diag.StageSymbolResolution, diag.CodeNameDuplicate, loc, "duplicate name %q", "Foo").
		WithNote(noteLoc, "previous definition here")
	f.Format(d)

	out := buf.String()
	if !strings.Contains(out, "  = note: previous definition here\n") {
		t.Errorf("missing note, got:\n%s", out)
	}
	if !strings.Contains(out, "           at widget.emb:9:1\n") {
		t.Errorf("missing note location, got:\n%s", out)
	}
}

func TestFormatAllPrintsEveryDiagnosticInOrder(t *testing.T) {
	var buf strings.Builder
	f := diag.NewFormatter(&buf, "widget.emb")

	l := diag.List{
		diag.Errorf(diag.StageBounds, diag.CodeIntegerOverflow, ir.Location{}, "first"),
		diag.Errorf(diag.StageBounds, diag.CodeIntegerOverflow, ir.Location{}, "second"),
	}
	f.FormatAll(l)

	out := buf.String()
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")
	if firstIdx < 0 || secondIdx < 0 || firstIdx > secondIdx {
		t.Errorf("expected diagnostics in order, got:\n%s", out)
	}
}

func TestFormatOmitsLocationLineWhenInvalidAndNoFile(t *testing.T) {
	var buf strings.Builder
	f := diag.NewFormatter(&buf, "")

	d := diag.Errorf(diag.StageCodegen, diag.CodeInternal, ir.Location{}, "unreachable")
	f.Format(d)

	if strings.Contains(buf.String(), "-->") {
		t.Errorf("expected no location line, got:\n%s", buf.String())
	}
}
