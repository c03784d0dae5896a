package language

// Public is a language as named by API clients.
type Public string

// Public language values.
const (
	Finnish Public = "FINNISH"
	Swedish Public = "SWEDISH"
	English Public = "ENGLISH"
)

// Code is the language suffix used in search engine field names.
type Code string

// Field language codes. Undefined marks a public value that has no mapping.
const (
	Undefined Code = ""
	FI        Code = "fi"
	SV        Code = "sv"
	EN        Code = "en"
)

// Default is used for single-language fields when no language was requested.
const Default = FI

var table = map[Public]Code{
	Finnish: FI,
	Swedish: SV,
	English: EN,
}

// All returns every supported code in canonical order.
func All() []Code {
	return []Code{FI, SV, EN}
}

// IsDefined reports whether c is a known language code.
func (c Code) IsDefined() bool {
	return c == FI || c == SV || c == EN
}

// Map converts public values to field codes. The result has the same length and
// order as the input: duplicates are kept and unknown values become Undefined.
func Map(public []Public) []Code {
	out := make([]Code, len(public))
	for i, p := range public {
		out[i] = table[p]
	}
	return out
}

// Defined drops Undefined entries and falls back to All when nothing remains.
func Defined(codes []Code) []Code {
	out := make([]Code, 0, len(codes))
	for _, c := range codes {
		if c.IsDefined() {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return All()
	}
	return out
}

// Primary returns the first defined code, or fallback when there is none.
func Primary(codes []Code, fallback Code) Code {
	for _, c := range codes {
		if c.IsDefined() {
			return c
		}
	}
	return fallback
}
