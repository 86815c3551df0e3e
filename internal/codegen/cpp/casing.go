package cpp

import "strings"

// convertCase converts name (always written in SHOUTY_CASE, the
// source syntax for an enum value) to the requested `enum_case`
// target, per original_source's util/name_conversion.py. Only the
// cases header_generator.py actually drives from SHOUTY_CASE are
// supported: SHOUTY_CASE (identity), CamelCase, and kCamelCase.
func convertCase(to, name string) string {
	switch to {
	case "SHOUTY_CASE":
		return name
	case "CamelCase":
		return shoutyToCamel(name)
	case "kCamelCase":
		return "k" + shoutyToCamel(name)
	default:
		return name
	}
}

func shoutyToCamel(name string) string {
	words := strings.Split(name, "_")
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(strings.ToLower(w[1:]))
	}
	return b.String()
}
