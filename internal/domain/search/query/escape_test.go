package query

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "mixed text",
			in:   `Test / Another + read-only: "More <text> & Ääni, öylätti, Åland"`,
			want: `Test \/ Another \+ read\-only\: \"More \<text\> & Ääni, öylätti, Åland\"`,
		},
		{name: "plain text unchanged", in: "Kamppi uimahalli", want: "Kamppi uimahalli"},
		{name: "empty", in: "", want: ""},
		{name: "double operators escaped once", in: "a&&b||c", want: `a\&&b\||c`},
		{name: "single ampersand and pipe kept", in: "a&b|c", want: "a&b|c"},
		{name: "adjacent reserved characters", in: "((x))", want: `\(\(x\)\)`},
		{name: "backslash", in: `a\b`, want: `a\\b`},
		{name: "all single operators", in: `+-=><!(){}[]^"~*?:\/`, want: `\+\-\=\>\<\!\(\)\{\}\[\]\^\"\~\*\?\:\\\/`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
