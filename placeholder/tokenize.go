// Package placeholder splits templates into literal and placeholder parts and
// resolves placeholders against a registry of values and styles.
//
// Placeholders are delimited by "{{" and "}}". There is no nesting and no
// escaping; an unterminated "{{" is ordinary text.
//
//	parts := placeholder.Tokenize("Hello {{Name}}!")
//	// [Literal "Hello "] [Placeholder "{{Name}}"] [Literal "!"]
package placeholder

import (
	"regexp"
	"strings"
)

// Delimiters of a placeholder token.
const (
	Open  = "{{"
	Close = "}}"
)

var tokenPattern = regexp.MustCompile(`\{\{.*?\}\}`)

// Kind tells literal text from placeholder tokens.
type Kind int

const (
	Literal Kind = iota
	Placeholder
)

func (k Kind) String() string {
	if k == Placeholder {
		return "placeholder"
	}
	return "literal"
}

// Part is one piece of a tokenized template. For placeholders Text is the raw
// token including its delimiters.
type Part struct {
	Kind Kind
	Text string
}

// Tokenize splits template into ordered parts. Joining the parts' text gives
// back the template. An empty template yields no parts.
func Tokenize(template string) []Part {
	var parts []Part
	last := 0
	for _, m := range tokenPattern.FindAllStringIndex(template, -1) {
		if m[0] > last {
			parts = append(parts, Part{Kind: Literal, Text: template[last:m[0]]})
		}
		parts = append(parts, Part{Kind: Placeholder, Text: template[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(template) {
		parts = append(parts, Part{Kind: Literal, Text: template[last:]})
	}
	return parts
}

// Join concatenates the text of parts.
func Join(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Keys returns the placeholder tokens of parts in order, duplicates included.
func Keys(parts []Part) []string {
	var keys []string
	for _, p := range parts {
		if p.Kind == Placeholder {
			keys = append(keys, p.Text)
		}
	}
	return keys
}

// Token wraps name in placeholder delimiters.
func Token(name string) string {
	return Open + name + Close
}
