package directive

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Directive
	}{
		{"[fr] Hello", Directive{Language: "fr", Text: "Hello"}},
		{"Hello", Directive{Language: "en", Text: "Hello"}},
		{"  Hello  ", Directive{Language: "en", Text: "Hello"}},
		{"[ de ]   Guten Tag ", Directive{Language: "de", Text: "Guten Tag"}},
		{"[xx] Hi", Directive{Language: "xx", Text: "Hi"}},
		{"[es][fr] Hola", Directive{Language: "es", Text: "[fr] Hola"}},
		{"[fr", Directive{Language: "en", Text: "[fr"}},
		{"Hello [fr]", Directive{Language: "en", Text: "Hello [fr]"}},
		{"[]", Directive{Language: "", Text: ""}},
		{"[it]", Directive{Language: "it", Text: ""}},
	}

	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}
