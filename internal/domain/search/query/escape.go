package query

import "strings"

// reserved holds the single-character query_string operators.
const reserved = `+-=><!(){}[]^"~*?:\/`

// Escape prefixes every query_string reserved operator in s with a backslash.
// The two-character operators && and || are escaped as a unit; a lone & or | is
// left as is.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c == '&' || c == '|') && i+1 < len(s) && s[i+1] == c {
			b.WriteByte('\\')
			b.WriteByte(c)
			b.WriteByte(c)
			i++
			continue
		}
		if strings.IndexByte(reserved, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
