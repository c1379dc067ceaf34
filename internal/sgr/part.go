package sgr

import (
	"fmt"
	"strings"
)

// PartKind discriminates the Part variants.
type PartKind int

const (
	// PartText is a literal run of characters.
	PartText PartKind = iota
	// PartStyleChange applies Attrs from here until the next style change.
	PartStyleChange
)

// Part is one unit of decoder output, in stream order.
type Part struct {
	Kind  PartKind
	Text  string
	Attrs AttributeSet
}

// Text builds a text part.
func Text(s string) Part { return Part{Kind: PartText, Text: s} }

// StyleChange builds a style change part carrying attrs.
func StyleChange(attrs ...Attribute) Part {
	return Part{Kind: PartStyleChange, Attrs: AttributeSet(attrs).Clone()}
}

// IsReset reports whether p is a style change that clears all styling.
func (p Part) IsReset() bool {
	return p.Kind == PartStyleChange && p.Attrs.IsReset()
}

func (p Part) String() string {
	if p.Kind == PartText {
		return fmt.Sprintf("Text(%q)", p.Text)
	}
	return "StyleChange{" + strings.Join(p.Attrs.Strings(), ",") + "}"
}

// TextOf concatenates the contents of every text part.
func TextOf(parts []Part) string {
	var sb strings.Builder
	for _, p := range parts {
		if p.Kind == PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
