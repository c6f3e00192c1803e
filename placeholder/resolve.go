package placeholder

import "github.com/lvillar/pdfcompose/style"

// Fragment is a piece of text ready for the renderer.
type Fragment struct {
	Text string

	// Style applies only when Styled is set; literal text is drawn with the
	// renderer's body defaults.
	Style  style.Style
	Styled bool

	// Token is the raw placeholder token the fragment came from, empty for
	// literals. Resolved reports whether the registry knew it.
	Token    string
	Resolved bool
}

// Resolve turns parts into fragments. A placeholder found in reg yields its
// registered value and style. An unknown placeholder is not an error: it
// yields its own token text with the default style. A nil reg is empty.
func Resolve(parts []Part, reg *Registry) []Fragment {
	frags := make([]Fragment, 0, len(parts))
	for _, p := range parts {
		if p.Kind == Literal {
			frags = append(frags, Fragment{Text: p.Text})
			continue
		}
		if e, ok := reg.Lookup(p.Text); ok {
			frags = append(frags, Fragment{
				Text:     e.Value,
				Style:    e.Style,
				Styled:   true,
				Token:    p.Text,
				Resolved: true,
			})
			continue
		}
		frags = append(frags, Fragment{
			Text:   p.Text,
			Styled: true,
			Token:  p.Text,
		})
	}
	return frags
}

// Unresolved returns the tokens of fragments the registry did not know.
func Unresolved(frags []Fragment) []string {
	var out []string
	for _, f := range frags {
		if f.Token != "" && !f.Resolved {
			out = append(out, f.Token)
		}
	}
	return out
}
