package diag_test

import (
	"testing"

	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
)

func TestErrorfAndWithNote(t *testing.T) {
	loc := ir.Location{Start: ir.Position{Line: 3, Column: 5}}
	noteLoc := ir.Location{Start: ir.Position{Line: 9, Column: 1}}

	d := diag.Errorf(diag.StageSymbolResolution, diag.CodeNameUnknown, loc, "unknown name %q", "Foo").
		WithNote(noteLoc, "did you mean %q?", "Bar")

	if d.Stage != diag.StageSymbolResolution {
		t.Fatalf("expected stage %q, got %q", diag.StageSymbolResolution, d.Stage)
	}
	if d.Code != diag.CodeNameUnknown {
		t.Fatalf("expected code %q, got %q", diag.CodeNameUnknown, d.Code)
	}
	if d.Severity != diag.SeverityError {
		t.Fatalf("expected severity %q, got %q", diag.SeverityError, d.Severity)
	}
	if d.Message != `unknown name "Foo"` {
		t.Fatalf("unexpected message: %q", d.Message)
	}
	if d.Location != loc {
		t.Fatalf("expected location %+v, got %+v", loc, d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != `did you mean "Bar"?` || d.Notes[0].Location != noteLoc {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}

func TestListHasErrors(t *testing.T) {
	var l diag.List
	if l.HasErrors() {
		t.Fatalf("empty list should not have errors")
	}
	l = append(l, diag.Diagnostic{Severity: diag.SeverityNote})
	if l.HasErrors() {
		t.Fatalf("note-only list should not have errors")
	}
	l = append(l, diag.Errorf(diag.StageBounds, diag.CodeIntegerOverflow, ir.Location{}, "overflow"))
	if !l.HasErrors() {
		t.Fatalf("expected list with an error diagnostic to report HasErrors")
	}
}
