package ir

// WriteMethodKind is the oneof tag written by internal/writeinfer for
// every Field (see spec.md §4.G).
type WriteMethodKind int

const (
	WriteMethodUnknown WriteMethodKind = iota
	WritePhysical
	WriteReadOnly
	WriteAlias
	WriteTransform
)

func (k WriteMethodKind) String() string {
	switch k {
	case WritePhysical:
		return "physical"
	case WriteReadOnly:
		return "read_only"
	case WriteAlias:
		return "alias"
	case WriteTransform:
		return "transform"
	default:
		return "unknown"
	}
}

// WriteMethod records how a write through a view realizes a field's
// value. Exactly one of Alias / (FunctionBody, Destination) is
// populated, depending on ThisKind.
type WriteMethod struct {
	ThisKind WriteMethodKind `json:"kind"`

	// WriteAlias:
	Alias *FieldReference `json:"alias_source,omitempty"`

	// WriteTransform: FunctionBody computes the physical value to
	// write to Destination from $logical_value.
	FunctionBody *Expression     `json:"transform_function_body,omitempty"`
	Destination  *FieldReference `json:"transform_destination,omitempty"`
}

func (w *WriteMethod) Kind() Kind    { return KindWriteMethod }
func (w *WriteMethod) Loc() Location { return Location{} }

// FieldLocation is a physical field's (start, size) in addressable
// units of its containing type.
type FieldLocation struct {
	Start    *Expression `json:"start"`
	Size     *Expression `json:"size"`
	Location Location    `json:"location"`
}

func (f *FieldLocation) Kind() Kind    { return KindFieldLocation }
func (f *FieldLocation) Loc() Location { return f.Location }

// Field is either physical (Physical != nil) or virtual (ReadTransform
// != nil); exactly one is set, per spec.md §3's Field invariants.
// Both kinds may carry an ExistenceCondition gating their presence at
// runtime.
type Field struct {
	Name               NameDefinition `json:"name"`
	Type               *TypeRef       `json:"type,omitempty"`
	Attributes         []*Attribute   `json:"attribute,omitempty"`
	Documentation      []string       `json:"documentation,omitempty"`
	Abbreviation       string         `json:"abbreviation,omitempty"`
	ExistenceCondition *Expression    `json:"existence_condition,omitempty"`

	Physical      *FieldLocation `json:"location,omitempty"`
	ReadTransform *Expression    `json:"read_transform,omitempty"`

	WriteMethod WriteMethod `json:"write_method"`
}

func (f *Field) Kind() Kind    { return KindField }
func (f *Field) Loc() Location { return f.Name.Location }

// IsVirtual reports whether the field is defined by a read transform
// rather than a physical location.
func (f *Field) IsVirtual() bool { return f.ReadTransform != nil }

// IsWritable reports whether the field's write method allows writes
// through a view at all.
func (f *Field) IsWritable() bool {
	switch f.WriteMethod.ThisKind {
	case WritePhysical, WriteAlias, WriteTransform:
		return true
	default:
		return false
	}
}
