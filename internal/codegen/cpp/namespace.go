package cpp

import (
	"regexp"
	"strings"

	"github.com/emboss-project/embossc/internal/attributes"
	"github.com/emboss-project/embossc/internal/diag"
	"github.com/emboss-project/embossc/internal/ir"
	"github.com/emboss-project/embossc/internal/reserved"
)

const (
	defaultNamespace = "emboss_generated_code"
	preludeInclude   = "runtime/cpp/emboss_prelude.h"
	enumViewInclude  = "runtime/cpp/emboss_enum_view.h"
	textUtilInclude  = "runtime/cpp/emboss_text_util.h"
	supportNamespace = "::emboss::support"
)

var namespaceComponentRE = regexp.MustCompile(`[^:]+`)

// moduleNamespace returns the dotted (cpp) namespace attribute's
// components, or opts.NamespaceFallback (if set), or the default, per
// spec.md §4.H item 1.
func moduleNamespace(mod *ir.Module, opts Options) []string {
	if a, ok := attributes.Find(mod.Attributes, "namespace", "cpp"); ok && a.Value.StringValue != nil {
		return namespaceComponentRE.FindAllString(*a.Value.StringValue, -1)
	}
	if opts.NamespaceFallback != "" {
		return namespaceComponentRE.FindAllString(opts.NamespaceFallback, -1)
	}
	return []string{defaultNamespace}
}

// validateNamespace rejects a namespace with no components (empty or
// "::"-only) and any component colliding with a C++ reserved word, per
// spec.md §4.H item 1.
func validateNamespace(ns []string, mod *ir.Module) diag.List {
	if len(ns) == 0 {
		return diag.List{diag.Errorf(diag.StageCodegen, diag.CodeAttributeValue, ir.Location{},
			"module %q has an empty (cpp) namespace", mod.SourceFileName)}
	}
	var errs diag.List
	for _, c := range ns {
		if lang, ok := reserved.Lookup(c); ok && lang == "C++" {
			errs = append(errs, diag.Errorf(diag.StageCodegen, diag.CodeAttributeValue, ir.Location{},
				"namespace component %q is a C++ reserved word", c))
		}
	}
	return errs
}

// renderNamespacePrefix renders ns as a fully-qualified prefix, e.g.
// "::foo::bar".
func renderNamespacePrefix(ns []string) string {
	var b strings.Builder
	for _, c := range ns {
		b.WriteString("::")
		b.WriteString(c)
	}
	return b.String()
}

// renderIncludes returns the #include directives for mod's foreign
// imports, plus the prelude and (when enabled) enum-traits support
// headers, per spec.md §4.H item 2.
func renderIncludes(mod *ir.Module, opts Options) string {
	var b strings.Builder
	for _, imp := range mod.Imports {
		if imp.FileName != "" {
			b.WriteString("#include \"")
			b.WriteString(imp.FileName)
			b.WriteString(".h\"\n")
			continue
		}
		b.WriteString("#include \"")
		b.WriteString(preludeInclude)
		b.WriteString("\"\n")
		if opts.EmitEnumTraits {
			b.WriteString("#include \"")
			b.WriteString(enumViewInclude)
			b.WriteString("\"\n")
			b.WriteString("#include \"")
			b.WriteString(textUtilInclude)
			b.WriteString("\"\n")
		}
	}
	return b.String()
}

var (
	guardNonAlnumRE         = regexp.MustCompile(`[^A-Za-z0-9_]`)
	guardDoubleUnderscoreRE = regexp.MustCompile(`__+`)
)

// headerGuard derives the #ifndef guard macro from an .emb file name
// with ".h" appended, per spec.md §6's "Header file layout produced":
// uppercase, replace
// non-alphanumerics with '_', collapse runs of '_', append a trailing
// '_'.
func headerGuard(fileName string) string {
	guard := strings.ToUpper(fileName + ".h")
	guard = guardNonAlnumRE.ReplaceAllString(guard, "_")
	guard += "_"
	return guardDoubleUnderscoreRE.ReplaceAllString(guard, "_")
}
