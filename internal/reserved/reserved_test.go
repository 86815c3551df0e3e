package reserved_test

import (
	"testing"

	"github.com/emboss-project/embossc/internal/reserved"
)

func TestIsReserved(t *testing.T) {
	cases := map[string]bool{
		"class":     true,
		"namespace": true,
		"def":       true,
		"value":     false,
		"Foo":       false,
	}
	for name, want := range cases {
		if got := reserved.IsReserved(name); got != want {
			t.Errorf("IsReserved(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLookupReportsFirstLanguage(t *testing.T) {
	lang, ok := reserved.Lookup("class")
	if !ok || lang != "C++" {
		t.Errorf("Lookup(%q) = (%q, %v), want (\"C++\", true)", "class", lang, ok)
	}
	if _, ok := reserved.Lookup("not_a_keyword"); ok {
		t.Errorf("Lookup(%q) unexpectedly found", "not_a_keyword")
	}
}
