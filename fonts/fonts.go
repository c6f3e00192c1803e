// Package fonts loads TrueType font families from an injected file system and
// registers them with PDF documents.
//
// Loading is an explicit step: Loader.Ensure reads a family's files once per
// process and caches the bytes, so repeated and concurrent calls are cheap and
// safe. Missing files are skipped; the family then falls back to whatever
// faces remain, or to the renderer's built-in Helvetica.
package fonts

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Family is one of the selectable page font families.
type Family int

const (
	LiberationSans Family = iota
	ComicNeue
	JetBrainsMono
	Montserrat
	LiberationSerif
	// Custom uses font bytes supplied with the page configuration.
	Custom
)

// Variant is a weight/slant combination of a family.
type Variant int

const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
)

var allVariants = []Variant{Regular, Bold, Italic, BoldItalic}

// Style returns the gofpdf style string of the variant.
func (v Variant) Style() string {
	switch v {
	case Bold:
		return "B"
	case Italic:
		return "I"
	case BoldItalic:
		return "BI"
	default:
		return ""
	}
}

func (v Variant) String() string {
	switch v {
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	default:
		return "Regular"
	}
}

// VariantOf returns the variant for the given weight and slant.
func VariantOf(bold, italic bool) Variant {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

type familyFiles struct {
	dir      string
	variants []Variant
}

var families = map[Family]familyFiles{
	LiberationSans:  {dir: "LiberationSans", variants: allVariants},
	ComicNeue:       {dir: "ComicNeue", variants: allVariants},
	JetBrainsMono:   {dir: "JetBrainsMono", variants: allVariants},
	Montserrat:      {dir: "Montserrat", variants: []Variant{Regular, Bold, Italic}},
	LiberationSerif: {dir: "LiberationSerif", variants: allVariants},
}

func (f Family) String() string {
	if f == Custom {
		return "Custom"
	}
	if ff, ok := families[f]; ok {
		return ff.dir
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// Name is the family name the font is registered under in a document.
func (f Family) Name() string {
	return strings.ToLower(f.String())
}

// ParseFamily looks up a family by name, ignoring case, spaces and dashes.
func ParseFamily(s string) (Family, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
	if key == "" {
		return LiberationSans, nil
	}
	if key == "custom" {
		return Custom, nil
	}
	for f, ff := range families {
		if strings.ToLower(ff.dir) == key {
			return f, nil
		}
	}
	return LiberationSans, fmt.Errorf("fonts: unknown family %q", s)
}

// Families returns the file-backed families.
func Families() []Family {
	return []Family{LiberationSans, ComicNeue, JetBrainsMono, Montserrat, LiberationSerif}
}

// Variants returns the variants f ships files for.
func Variants(f Family) []Variant {
	return append([]Variant(nil), families[f].variants...)
}

// Face is the font file of one variant.
type Face struct {
	Variant Variant
	Data    []byte
}

// FilePath returns the path of a family variant inside the loader's file system.
func FilePath(f Family, v Variant) string {
	dir := families[f].dir
	return path.Join(dir, dir+"-"+v.String()+".ttf")
}

// Loader reads font families from a file system, once per family.
type Loader struct {
	fsys fs.FS
	log  *zap.Logger

	mu     sync.Mutex
	loaded map[Family][]Face
}

// NewLoader returns a loader over fsys. A nil fsys provides no fonts; a nil
// log discards warnings.
func NewLoader(fsys fs.FS, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		fsys:   fsys,
		log:    log,
		loaded: make(map[Family][]Face),
	}
}

// Ensure returns the faces of family, reading them on first use. Files that
// cannot be read are skipped with a warning. Custom and unknown families have
// no files and return nil.
func (l *Loader) Ensure(f Family) []Face {
	ff, ok := families[f]
	if !ok || l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if faces, ok := l.loaded[f]; ok {
		return faces
	}

	var faces []Face
	for _, v := range ff.variants {
		if l.fsys == nil {
			break
		}
		p := FilePath(f, v)
		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			l.log.Warn("font file unavailable, skipping",
				zap.String("family", f.String()),
				zap.String("variant", v.String()),
				zap.String("path", p),
				zap.Error(err),
			)
			continue
		}
		faces = append(faces, Face{Variant: v, Data: data})
	}
	l.loaded[f] = faces
	return faces
}
