package placeholder

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/lvillar/pdfcompose/style"
)

// Entry is a registered placeholder: its key as written by the caller, the
// value substituted for it and the style the value is drawn with.
type Entry struct {
	Key   string
	Value string
	Style style.Style
}

// Registry maps placeholder keys to entries. Keys match case-insensitively
// (simple Unicode case folding). When two keys differ only by case the last Set wins,
// including the spelling of the stored key.
//
// A Registry is not safe for concurrent writes; it is meant to be filled once
// and then only read.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// fold applies simple case folding: each rune folds to a single rune, and a
// rune whose full folding would expand (ß to ss) is kept as written.
func fold(key string) string {
	c := cases.Fold()
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		f := c.String(string(r))
		if utf8.RuneCountInString(f) == 1 {
			b.WriteString(f)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Set registers value and style under key.
func (r *Registry) Set(key, value string, s style.Style) {
	if r.entries == nil {
		r.entries = make(map[string]Entry)
	}
	k := fold(key)
	if _, ok := r.entries[k]; !ok {
		r.order = append(r.order, k)
	}
	r.entries[k] = Entry{Key: key, Value: value, Style: s}
}

// SetStyle replaces the style of an existing entry. It reports whether key
// was registered.
func (r *Registry) SetStyle(key string, s style.Style) bool {
	k := fold(key)
	e, ok := r.entries[k]
	if !ok {
		return false
	}
	e.Style = s
	r.entries[k] = e
	return true
}

// Lookup finds the entry for token.
func (r *Registry) Lookup(token string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[fold(token)]
	return e, ok
}

// Len returns the number of distinct keys.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Entries returns the entries in the order their keys were first set.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.entries[k])
	}
	return out
}

// Merge copies every entry of other into r, in other's order.
func (r *Registry) Merge(other *Registry) {
	for _, e := range other.Entries() {
		r.Set(e.Key, e.Value, e.Style)
	}
}
