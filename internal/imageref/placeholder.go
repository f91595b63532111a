// Package imageref finds image references embedded in prompt text and builds
// the placeholder tokens that stand in for attached images.
//
// Two notations are understood. The placeholder notation
// {{claudecode:image:REF}} (optionally {{claudecode:image:base64:REF}}) is an
// explicit declaration and is always accepted. The legacy mention notation
// @path or @"path with spaces" is accepted only when the path looks like an
// image.
package imageref

import (
	"regexp"
)

const (
	PlaceholderPrefix = "{{claudecode:image:"
	PlaceholderSuffix = "}}"
	Base64Tag         = "base64:"
)

// PlaceholderRe matches a placeholder token. Group 1 is the optional base64
// tag, group 2 the reference.
var PlaceholderRe = regexp.MustCompile(`\{\{claudecode:image:(base64:)?([^}]+)\}\}`)

// Placeholder is a single placeholder token found in text.
type Placeholder struct {
	Ref    string
	Base64 bool
	Start  int // byte offset of the opening braces
	End    int // byte offset just past the closing braces
}

// Encode returns the placeholder token for ref. No validation is done on ref;
// a ref containing '}' produces a token that Extract cannot read back.
func Encode(ref string, isBase64 bool) string {
	tag := ""
	if isBase64 {
		tag = Base64Tag
	}
	return PlaceholderPrefix + tag + ref + PlaceholderSuffix
}

// Placeholders returns every well-formed placeholder in text, in order of
// appearance. Duplicates are kept.
func Placeholders(text string) []Placeholder {
	var out []Placeholder
	for _, m := range PlaceholderRe.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, Placeholder{
			Ref:    text[m[4]:m[5]],
			Base64: m[2] != -1,
			Start:  m[0],
			End:    m[1],
		})
	}
	return out
}
