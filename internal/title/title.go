// Package title decodes the escaped page titles used in FEVER evidence.
//
// The upstream parser replaces characters that are special to its tokenizer with
// placeholder tokens (-LRB- for "(", -COLON- for ":") and spaces with underscores.
package title

import "strings"

// placeholders is the static (token, replacement) table. No token occurs inside another
// token's replacement, so a single pass gives the same result as any sequential order.
var placeholders = [][2]string{
	{"-LRB-", "("},
	{"-RRB-", ")"},
	{"-LSB-", "["},
	{"-RSB-", "]"},
	{"-LCB-", "{"},
	{"-RCB-", "}"},
	{"-COLON-", ":"},
	{"_", " "},
}

var (
	decoder = newReplacer(false)
	encoder = newReplacer(true)
)

func newReplacer(reverse bool) *strings.Replacer {
	pairs := make([]string, 0, len(placeholders)*2)
	for _, p := range placeholders {
		if reverse {
			pairs = append(pairs, p[1], p[0])
		} else {
			pairs = append(pairs, p[0], p[1])
		}
	}
	return strings.NewReplacer(pairs...)
}

// Decode turns an escaped page title into the human-readable title
func Decode(s string) string {
	return decoder.Replace(s)
}

// DecodePtr decodes a nullable title; nil stays nil
func DecodePtr(s *string) *string {
	if s == nil {
		return nil
	}
	decoded := Decode(*s)
	return &decoded
}

// Encode produces the placeholder form of a human-readable title
func Encode(s string) string {
	return encoder.Replace(s)
}
