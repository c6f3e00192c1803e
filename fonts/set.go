package fonts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"
)

// DefaultFamily is the built-in family every document can fall back to.
const DefaultFamily = "helvetica"

var coreFamilies = []string{"helvetica", "arial", "times", "courier"}

// Set records which families and variants a document can draw with.
type Set struct {
	variants map[string]map[Variant]bool
	utf8     map[string]bool
}

// NewSet returns a set holding the PDF core families.
func NewSet() *Set {
	s := &Set{
		variants: make(map[string]map[Variant]bool),
		utf8:     make(map[string]bool),
	}
	for _, name := range coreFamilies {
		for _, v := range allVariants {
			s.add(name, v, false)
		}
	}
	return s
}

func (s *Set) add(family string, v Variant, utf8 bool) {
	key := strings.ToLower(family)
	if s.variants[key] == nil {
		s.variants[key] = make(map[Variant]bool)
	}
	s.variants[key][v] = true
	if utf8 {
		s.utf8[key] = true
	}
}

// Has reports whether any variant of family is available.
func (s *Set) Has(family string) bool {
	return len(s.variants[strings.ToLower(family)]) > 0
}

// UTF8 reports whether family was registered from a TrueType file and so
// takes UTF-8 text directly.
func (s *Set) UTF8(family string) bool {
	return s.utf8[strings.ToLower(family)]
}

// Style returns the gofpdf style string of the closest available variant:
// the requested one, else without italic, else without bold, else regular,
// else any variant the family has. Underline is appended unchanged since it
// is not a font face.
func (s *Set) Style(family string, bold, italic, underline bool) string {
	have := s.variants[strings.ToLower(family)]
	want := VariantOf(bold, italic)

	chosen := Regular
	for _, v := range append([]Variant{want, VariantOf(bold, false), VariantOf(false, italic)}, allVariants...) {
		if have[v] {
			chosen = v
			break
		}
	}

	st := chosen.Style()
	if underline {
		st += "U"
	}
	return st
}

var (
	trueTypeMagic = []byte{0x00, 0x01, 0x00, 0x00}
	appleMagic    = []byte("true")
)

// Validate reports whether data is a TrueType font a document can embed.
// PostScript-flavoured OpenType fonts are rejected.
func Validate(data []byte) error {
	if len(data) < 4 || !(bytes.Equal(data[:4], trueTypeMagic) || bytes.Equal(data[:4], appleMagic)) {
		return errors.New("fonts: not a TrueType font")
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("fonts: %w", err)
	}
	if f.NumGlyphs() == 0 {
		return errors.New("fonts: font has no glyphs")
	}
	return nil
}

// Registrar is the part of a PDF document fonts are registered with.
type Registrar interface {
	AddUTF8FontFromBytes(familyStr, styleStr string, utf8Bytes []byte)
	Err() bool
	Error() error
	ClearError()
}

// Register adds faces to doc under name and records them in s. A face that
// does not parse, or that the document rejects, is skipped with a warning and
// leaves doc usable. It returns the number of faces registered.
func (s *Set) Register(doc Registrar, name string, faces []Face, log *zap.Logger) int {
	if log == nil {
		log = zap.NewNop()
	}
	name = strings.ToLower(name)

	n := 0
	for _, f := range faces {
		if err := Validate(f.Data); err != nil {
			log.Warn("font file invalid, skipping",
				zap.String("family", name),
				zap.String("variant", f.Variant.String()),
				zap.Error(err),
			)
			continue
		}
		doc.AddUTF8FontFromBytes(name, f.Variant.Style(), f.Data)
		if doc.Err() {
			log.Warn("font registration failed, skipping",
				zap.String("family", name),
				zap.String("variant", f.Variant.String()),
				zap.Error(doc.Error()),
			)
			doc.ClearError()
			continue
		}
		s.add(name, f.Variant, true)
		n++
	}
	return n
}
