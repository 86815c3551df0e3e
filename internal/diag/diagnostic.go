// Package diag defines the compiler diagnostic type shared by every
// pass, adapted from the teacher compiler's diagnostic model: a
// primary location, a stable Code, and zero or more secondary notes
// each with their own location (spec.md §7: "every error carries a
// primary file, source location, and message, plus zero or more notes
// each with their own location").
package diag

import (
	"fmt"

	"github.com/emboss-project/embossc/internal/ir"
)

// Stage identifies which compiler pass produced the diagnostic.
type Stage string

const (
	StageSymbolResolution Stage = "symbol_resolution"
	StageTypeCheck        Stage = "type_check"
	StageBounds           Stage = "bounds"
	StageAttributes       Stage = "attributes"
	StageConstraints      Stage = "constraints"
	StageWriteInference   Stage = "write_inference"
	StageCodegen          Stage = "codegen"
)

// Severity captures how impactful the diagnostic is. Only Error
// aborts the pipeline; Warning and Note are carried for completeness
// but every pass in this repo currently emits only Error.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic, grouped by the
// taxonomy in spec.md §7.
type Code string

const (
	// Name errors.
	CodeNameUnknown   Code = "NAME_UNKNOWN"
	CodeNameAmbiguous Code = "NAME_AMBIGUOUS"
	CodeNameDuplicate Code = "NAME_DUPLICATE"
	CodeNameBadMember Code = "NAME_BAD_MEMBER_ACCESS"

	// Type errors.
	CodeTypeMismatch     Code = "TYPE_MISMATCH"
	CodeTypeBadArgCount  Code = "TYPE_BAD_ARG_COUNT"
	CodeTypeNonInteger   Code = "TYPE_NON_INTEGER"
	CodeTypeNonBoolean   Code = "TYPE_NON_BOOLEAN"
	CodeTypeBadStaticRef Code = "TYPE_BAD_STATIC_REFERENCE"
	CodeTypeBadParameter Code = "TYPE_BAD_PARAMETER"

	// Attribute errors.
	CodeAttributeUnknown   Code = "ATTRIBUTE_UNKNOWN"
	CodeAttributeDefault   Code = "ATTRIBUTE_BAD_DEFAULT"
	CodeAttributeType      Code = "ATTRIBUTE_BAD_TYPE"
	CodeAttributeDuplicate Code = "ATTRIBUTE_DUPLICATE"
	CodeAttributeValue     Code = "ATTRIBUTE_BAD_VALUE"
	CodeAttributeBackEnd   Code = "ATTRIBUTE_BAD_BACK_END"

	// Structural errors.
	CodeSizeMismatch   Code = "SIZE_MISMATCH"
	CodeRequiresFailed Code = "REQUIRES_FAILED"
	CodeArrayDimension Code = "ARRAY_BAD_DIMENSION"
	CodeArrayElement   Code = "ARRAY_BAD_ELEMENT"
	CodeBitsTooLarge   Code = "BITS_TOO_LARGE"
	CodeBitsByteType   Code = "BITS_BYTE_ADDRESSABLE_TYPE"
	CodeEnumValueRange Code = "ENUM_VALUE_OUT_OF_RANGE"
	CodeReservedWord   Code = "RESERVED_WORD"
	CodeConstantTarget Code = "CONSTANT_BAD_TARGET"

	// Integer-range errors.
	CodeUnboundedRange  Code = "INTEGER_UNBOUNDED_RANGE"
	CodeIntegerOverflow Code = "INTEGER_OVERFLOW"
	CodeMixedSignedness Code = "INTEGER_MIXED_SIGNEDNESS"

	// Internal errors: IR invariant violations, never user errors.
	CodeInternal Code = "INTERNAL"
)

// Note is a secondary annotation attached to a Diagnostic, each with
// its own location -- e.g. "previous definition here" on a duplicate
// name, or the two candidates of an ambiguous reference.
type Note struct {
	Message  string
	Location ir.Location
}

// Diagnostic is a single compiler error, warning, or note surfaced to
// the end user. File names the module the diagnostic belongs to; it
// is left empty by every pass (none of them thread module boundaries
// through yet, since today's pipeline runs against a single module's
// dependency closure supplied as one JSON document) and is instead
// filled in by Formatter from the file the driver was asked to
// compile when empty.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	File     string
	Location ir.Location
	Notes    []Note
}

// Errorf builds an error-severity Diagnostic with no notes.
func Errorf(stage Stage, code Code, loc ir.Location, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}
}

// WithNote appends a note to the diagnostic and returns it, so call
// sites can chain: diag.Errorf(...).WithNote(...).
func (d Diagnostic) WithNote(loc ir.Location, format string, args ...any) Diagnostic {
	d.Notes = append(d.Notes, Note{Message: fmt.Sprintf(format, args...), Location: loc})
	return d
}

// List is the accumulating error list every pass threads through its
// traversal; passes append to it and only stop early where continuing
// would cascade (§5): prefix failure in FieldReference resolution, and
// unknown-symbol suppression before member lookup.
type List []Diagnostic

// HasErrors reports whether any entry has Severity == Error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
