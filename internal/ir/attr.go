package ir

// AttributeValue is either a string literal or an expression -- the
// two value shapes spec.md §4.E allows for an attribute.
type AttributeValue struct {
	StringValue *string     `json:"string_value,omitempty"`
	Expression  *Expression `json:"expression,omitempty"`
}

// IsString reports whether the value is the string variant.
func (v AttributeValue) IsString() bool { return v.StringValue != nil }

// Attribute is a name/value pair attached to a module, type, field, or
// enum value. BackEnd is the optional qualifier ("cpp" for `(cpp)
// foo = ...`); empty means the attribute applies to every back end.
// IsDefault marks an attribute that supplies a default value for
// descendants in the traversal rather than a value for its own scope.
type Attribute struct {
	Name      string         `json:"name"`
	BackEnd   string         `json:"back_end,omitempty"`
	IsDefault bool           `json:"is_default,omitempty"`
	Value     AttributeValue `json:"value"`
	Location  Location       `json:"location"`
}

func (a *Attribute) Kind() Kind    { return KindAttribute }
func (a *Attribute) Loc() Location { return a.Location }

// Qualified reports whether the attribute is restricted to one back
// end (as opposed to applying universally).
func (a *Attribute) Qualified() bool { return a.BackEnd != "" }
