package diag

import (
	"fmt"
	"io"
)

// Formatter renders diagnostics in the teacher's "error[CODE]: message
// / --> file:line:col" style. Unlike a front end, this package never
// has the original .emb source text available (lexing/parsing is out
// of scope per spec.md §1), so it prints locations rather than
// underlined source snippets.
type Formatter struct {
	w io.Writer

	// defaultFile names the file passed to the driver on the command
	// line. It fills in for any Diagnostic whose own File is empty --
	// today, every diagnostic every pass produces, since none of them
	// thread module boundaries through a multi-file compilation yet.
	defaultFile string
}

// NewFormatter creates a Formatter writing to w (typically os.Stderr),
// falling back to defaultFile for diagnostics without their own File.
func NewFormatter(w io.Writer, defaultFile string) *Formatter {
	return &Formatter{w: w, defaultFile: defaultFile}
}

// Format prints one diagnostic, followed by its notes.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)
	file := d.File
	if file == "" {
		file = f.defaultFile
	}
	if d.Location.IsValid() {
		fmt.Fprintf(f.w, "  --> %s:%d:%d\n", file, d.Location.Start.Line, d.Location.Start.Column)
	} else if file != "" {
		fmt.Fprintf(f.w, "  --> %s\n", file)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = note: %s\n", note.Message)
		if note.Location.IsValid() {
			fmt.Fprintf(f.w, "           at %s:%d:%d\n", file, note.Location.Start.Line, note.Location.Start.Column)
		}
	}
}

// FormatAll prints every diagnostic in l, in order.
func (f *Formatter) FormatAll(l List) {
	for _, d := range l {
		f.Format(d)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		fmt.Fprintf(f.w, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.w, "%s: %s\n", severity, d.Message)
	}
}
