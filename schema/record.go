// Package schema derives placeholder registries, and for tabular data the
// template as well, from structured sources.
//
// Records describe their own fields through the Record interface; nothing is
// discovered by reflection. Every synthesized placeholder gets its own copy of
// the default style.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/style"
)

// Field is one named value of a record.
type Field struct {
	Name  string
	Value any
}

// Record is a structured value that can list its public fields.
type Record interface {
	Fields() []Field
}

// Fields is a Record backed by an explicit field list.
type Fields []Field

// Fields implements Record.
func (f Fields) Fields() []Field { return f }

// Map is a Record backed by a map. Fields are listed in sorted name order.
type Map map[string]any

// Fields implements Record.
func (m Map) Fields() []Field {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Field, len(names))
	for i, name := range names {
		out[i] = Field{Name: name, Value: m[name]}
	}
	return out
}

// RecordFunc adapts a projection function to Record.
type RecordFunc func() []Field

// Fields implements Record.
func (f RecordFunc) Fields() []Field { return f() }

// FromRecord builds one placeholder per field, keyed "{{Name}}", whose value
// is the field's string form. The template is the caller's to write.
func FromRecord(rec Record, def style.Style) *placeholder.Registry {
	reg := placeholder.NewRegistry()
	if rec == nil {
		return reg
	}
	for _, f := range rec.Fields() {
		reg.Set(placeholder.Token(f.Name), Stringify(f.Value), def)
	}
	return reg
}

// Stringify renders a field value as text, best effort. Nil is "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	default:
		return fmt.Sprint(v)
	}
}
