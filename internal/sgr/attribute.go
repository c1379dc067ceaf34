package sgr

import (
	"strconv"
	"strings"
)

// Attribute is a semantic style tag such as "bold" or "foreground-red".
// The decoder only cares about identity, never about visual meaning.
type Attribute string

// Reset is carried by a StyleChange that clears all styling.
const Reset Attribute = "reset"

const (
	Bold          Attribute = "bold"
	Dim           Attribute = "dim"
	Italic        Attribute = "italic"
	Underline     Attribute = "underline"
	Blink         Attribute = "blink"
	Inverse       Attribute = "inverse"
	Hidden        Attribute = "hidden"
	Strikethrough Attribute = "strikethrough"
)

const (
	foregroundPrefix = "foreground-"
	backgroundPrefix = "background-"
)

// category groups mutually exclusive attributes; a new attribute replaces
// the one of the same category already in a set.
type category int

const (
	catNone category = iota
	catBold
	catDim
	catItalic
	catUnderline
	catBlink
	catInverse
	catHidden
	catStrikethrough
	catForeground
	catBackground
)

var flagCategories = map[Attribute]category{
	Bold:          catBold,
	Dim:           catDim,
	Italic:        catItalic,
	Underline:     catUnderline,
	Blink:         catBlink,
	Inverse:       catInverse,
	Hidden:        catHidden,
	Strikethrough: catStrikethrough,
}

func (a Attribute) category() category {
	if c, ok := flagCategories[a]; ok {
		return c
	}
	s := string(a)
	switch {
	case strings.HasPrefix(s, foregroundPrefix):
		return catForeground
	case strings.HasPrefix(s, backgroundPrefix):
		return catBackground
	}
	return catNone
}

var colorNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// flagCodes maps single-code SGR parameters to their attribute.
var flagCodes = map[int]Attribute{
	1: Bold,
	2: Dim,
	3: Italic,
	4: Underline,
	5: Blink,
	6: Blink,
	7: Inverse,
	8: Hidden,
	9: Strikethrough,
}

// offCodes maps SGR "off" parameters to the categories they clear.
var offCodes = map[int][]category{
	22: {catBold, catDim},
	23: {catItalic},
	24: {catUnderline},
	25: {catBlink},
	27: {catInverse},
	28: {catHidden},
	29: {catStrikethrough},
	39: {catForeground},
	49: {catBackground},
}

// colorAttribute returns the attribute for the 3/4-bit color codes.
func colorAttribute(code int) (Attribute, bool) {
	switch {
	case code >= 30 && code <= 37:
		return Attribute(foregroundPrefix + colorNames[code-30]), true
	case code >= 40 && code <= 47:
		return Attribute(backgroundPrefix + colorNames[code-40]), true
	case code >= 90 && code <= 97:
		return Attribute(foregroundPrefix + "bright-" + colorNames[code-90]), true
	case code >= 100 && code <= 107:
		return Attribute(backgroundPrefix + "bright-" + colorNames[code-100]), true
	}
	return "", false
}

func indexedColor(prefix string, n int) Attribute {
	return Attribute(prefix + "256-" + strconv.Itoa(n))
}

func rgbColor(prefix string, r, g, b int) Attribute {
	return Attribute(prefix + "rgb-" + strconv.Itoa(r) + "-" + strconv.Itoa(g) + "-" + strconv.Itoa(b))
}

// AttributeSet is the ordered, cumulative styling active at a point in the
// stream.
type AttributeSet []Attribute

// Has reports whether a is present in the set.
func (s AttributeSet) Has(a Attribute) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// IsReset reports whether the set signals a full clear.
func (s AttributeSet) IsReset() bool { return s.Has(Reset) }

// Clone returns a copy that does not share backing storage with s.
func (s AttributeSet) Clone() AttributeSet {
	if s == nil {
		return nil
	}
	out := make(AttributeSet, len(s))
	copy(out, s)
	return out
}

// Strings returns the attribute names in order.
func (s AttributeSet) Strings() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = string(a)
	}
	return out
}

// with merges a into the set: same-category attributes are replaced in
// place, everything else is appended.
func (s AttributeSet) with(a Attribute) AttributeSet {
	if c := a.category(); c != catNone {
		for i, x := range s {
			if x.category() == c {
				s[i] = a
				return s
			}
		}
	}
	if s.Has(a) {
		return s
	}
	return append(s, a)
}

// without drops every attribute belonging to one of cats.
func (s AttributeSet) without(cats ...category) AttributeSet {
	out := s[:0]
	for _, x := range s {
		drop := false
		for _, c := range cats {
			if x.category() == c {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, x)
		}
	}
	return out
}
