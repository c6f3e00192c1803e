package style

import "testing"

type familySet map[string]bool

func (f familySet) Has(family string) bool { return f[family] }

func TestResolveColorNamed(t *testing.T) {
	tests := []struct {
		color Color
		want  string
	}{
		{Black, "#000000"},
		{White, "#FFFFFF"},
		{Gray, "#9E9E9E"},
		{DarkBlue, "#0D47A1"},
		{Cyan, "#00BCD4"},
	}
	for _, tt := range tests {
		got := ResolveColor(Style{Color: Named(tt.color)})
		if got != tt.want {
			t.Errorf("ResolveColor(%v) = %q, want %q", tt.color, got, tt.want)
		}
	}
}

func TestResolveColorDefaultsToBlack(t *testing.T) {
	if got := ResolveColor(Style{}); got != "#000000" {
		t.Fatalf("zero style resolved to %q, want black", got)
	}
	if got := ResolveColor(Style{Color: Named(Color(99))}); got != "#000000" {
		t.Fatalf("unmapped color resolved to %q, want black", got)
	}
}

func TestResolveColorHexPrecedence(t *testing.T) {
	s := Style{Color: ColorSpec{Name: Red, Hex: "#123456"}}
	if got := ResolveColor(s); got != "#123456" {
		t.Fatalf("got %q, want custom hex", got)
	}

	s.Color.Hex = "   "
	if got := ResolveColor(s); got != "#F44336" {
		t.Fatalf("blank hex resolved to %q, want red", got)
	}

	// Not validated here: the renderer decides.
	if got := ResolveColor(Style{Color: CustomHex("not-a-color")}); got != "not-a-color" {
		t.Fatalf("got %q, want verbatim passthrough", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]Color{
		"DarkBlue":   DarkBlue,
		"dark-blue":  DarkBlue,
		"light_grey": LightGray,
		"CYAN":       Cyan,
		"black":      Black,
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseColor("magenta"); err == nil {
		t.Fatal("expected error for unknown color")
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex("#0D47A1")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if got != (RGBColor{R: 13, G: 71, B: 161}) {
		t.Fatalf("got %+v", got)
	}

	got, err = ParseHex("fff")
	if err != nil {
		t.Fatalf("ParseHex short form: %v", err)
	}
	if got != (RGBColor{R: 255, G: 255, B: 255}) {
		t.Fatalf("got %+v", got)
	}

	for _, bad := range []string{"", "#12345", "#GGGGGG", "blue"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q): expected error", bad)
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	attrs := Apply(Style{}, BodyDefaults("helvetica"), nil)
	if attrs.Size != BodySize {
		t.Errorf("size = %v, want %v", attrs.Size, BodySize)
	}
	if attrs.Family != "helvetica" {
		t.Errorf("family = %q", attrs.Family)
	}
	if attrs.FontStyle() != "" {
		t.Errorf("font style = %q, want regular", attrs.FontStyle())
	}
	if attrs.Outcome != FamilyDefault {
		t.Errorf("outcome = %v", attrs.Outcome)
	}

	title := Apply(Style{Bold: true}, TitleDefaults("helvetica"), nil)
	if title.Size != TitleSize {
		t.Errorf("title size = %v, want %v", title.Size, TitleSize)
	}
}

func TestApplyAllToggles(t *testing.T) {
	s := Style{Bold: true, Italic: true, Underline: true, Size: 14, Color: Named(DarkGreen)}
	attrs := Apply(s, BodyDefaults("times"), nil)

	if got := attrs.FontStyle(); got != "BIU" {
		t.Errorf("font style = %q, want BIU", got)
	}
	if attrs.Size != 14 {
		t.Errorf("size = %v, want 14", attrs.Size)
	}
	if attrs.Color != "#1B5E20" {
		t.Errorf("color = %q", attrs.Color)
	}
}

func TestApplyCustomFamily(t *testing.T) {
	known := familySet{"montserrat": true}

	applied := Apply(Style{Family: "montserrat"}, BodyDefaults("helvetica"), known)
	if applied.Family != "montserrat" || applied.Outcome != FamilyApplied {
		t.Errorf("got family %q outcome %v, want applied", applied.Family, applied.Outcome)
	}

	fallback := Apply(Style{Family: "Papyrus"}, BodyDefaults("helvetica"), known)
	if fallback.Family != "helvetica" {
		t.Errorf("fallback family = %q, want page family", fallback.Family)
	}
	if fallback.Outcome != FamilyFallback || fallback.Requested != "Papyrus" {
		t.Errorf("got outcome %v requested %q", fallback.Outcome, fallback.Requested)
	}
}
