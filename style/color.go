package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the fixed named text colors. The zero value is Black.
type Color int

// Named colors.
const (
	Black Color = iota
	White
	Gray
	LightGray
	DarkGray
	Blue
	DarkBlue
	Green
	DarkGreen
	Red
	DarkRed
	Yellow
	Orange
	Brown
	Cyan
)

var colorNames = [...]string{
	Black:     "Black",
	White:     "White",
	Gray:      "Gray",
	LightGray: "LightGray",
	DarkGray:  "DarkGray",
	Blue:      "Blue",
	DarkBlue:  "DarkBlue",
	Green:     "Green",
	DarkGreen: "DarkGreen",
	Red:       "Red",
	DarkRed:   "DarkRed",
	Yellow:    "Yellow",
	Orange:    "Orange",
	Brown:     "Brown",
	Cyan:      "Cyan",
}

// palette maps every named color to its concrete hex value.
var palette = map[Color]string{
	Black:     "#000000",
	White:     "#FFFFFF",
	Gray:      "#9E9E9E",
	LightGray: "#EEEEEE",
	DarkGray:  "#212121",
	Blue:      "#2196F3",
	DarkBlue:  "#0D47A1",
	Green:     "#4CAF50",
	DarkGreen: "#1B5E20",
	Red:       "#F44336",
	DarkRed:   "#B71C1C",
	Yellow:    "#FFEB3B",
	Orange:    "#FF9800",
	Brown:     "#795548",
	Cyan:      "#00BCD4",
}

func (c Color) String() string {
	if c >= 0 && int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// Colors returns every named color in declaration order.
func Colors() []Color {
	out := make([]Color, len(colorNames))
	for i := range colorNames {
		out[i] = Color(i)
	}
	return out
}

// ParseColor looks up a named color, ignoring case, spaces, dashes and
// underscores ("dark-blue" and "DarkBlue" are the same color). "Grey" is
// accepted for "Gray".
func ParseColor(name string) (Color, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	key = strings.ReplaceAll(key, "grey", "gray")
	for i, n := range colorNames {
		if strings.ToLower(n) == key {
			return Color(i), nil
		}
	}
	return Black, fmt.Errorf("style: unknown color %q", name)
}

// ColorSpec selects a text color: a named color, or an arbitrary hex value
// which, when non-blank, wins over the name.
type ColorSpec struct {
	Name Color
	Hex  string
}

// Named returns a ColorSpec for a named color.
func Named(c Color) ColorSpec {
	return ColorSpec{Name: c}
}

// CustomHex returns a ColorSpec for an explicit hex value such as "#1A2B3C".
func CustomHex(hex string) ColorSpec {
	return ColorSpec{Hex: hex}
}

// ResolveColor returns the concrete color for a style. A non-blank custom hex
// is returned verbatim without validation; anything else goes through the
// palette, with Black for values the palette does not know.
func ResolveColor(s Style) string {
	return s.Color.Resolve()
}

// Resolve is ResolveColor for a bare ColorSpec.
func (c ColorSpec) Resolve() string {
	if strings.TrimSpace(c.Hex) != "" {
		return c.Hex
	}
	if hex, ok := palette[c.Name]; ok {
		return hex
	}
	return palette[Black]
}

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// ParseHex converts "#RGB" or "#RRGGBB" (the leading '#' is optional) into
// RGB components.
func ParseHex(hex string) (RGBColor, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGBColor{}, fmt.Errorf("style: invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBColor{}, fmt.Errorf("style: invalid hex color %q", hex)
	}
	return RGBColor{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, nil
}
