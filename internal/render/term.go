package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var colorIndex = map[string]int{
	"black": 0, "red": 1, "green": 2, "yellow": 3,
	"blue": 4, "magenta": 5, "cyan": 6, "white": 7,
}

// TermTree writes rendered output straight to a terminal, styling each
// container with lipgloss. Nothing is retained, so it suits endless streams.
type TermTree struct {
	w   io.Writer
	r   *lipgloss.Renderer
	err error
}

// NewTermTree returns a tree writing to w. The color profile is detected
// from w.
func NewTermTree(w io.Writer) *TermTree {
	return &TermTree{w: w, r: lipgloss.NewRenderer(w)}
}

// Root returns the unstyled container.
func (t *TermTree) Root() Container { return termContainer{t: t} }

// Err returns the first write error, if any.
func (t *TermTree) Err() error { return t.err }

// SetDone terminates the output with a newline.
func (t *TermTree) SetDone() { t.write("\n") }

// WriteDocument passes markup through untouched.
func (t *TermTree) WriteDocument(markup string) { t.write(markup) }

func (t *TermTree) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

// Style builds the lipgloss style for a container's classes. Unknown classes
// are ignored.
func (t *TermTree) Style(classes []string) lipgloss.Style {
	st := t.r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	for _, c := range classes {
		switch c {
		case "bold":
			st = st.Bold(true)
		case "dim":
			st = st.Faint(true)
		case "italic":
			st = st.Italic(true)
		case "underline":
			st = st.Underline(true)
		case "blink":
			st = st.Blink(true)
		case "inverse":
			st = st.Reverse(true)
		case "strikethrough":
			st = st.Strikethrough(true)
		default:
			if rest, ok := strings.CutPrefix(c, "foreground-"); ok {
				if col, ok := termColor(rest); ok {
					st = st.Foreground(col)
				}
			} else if rest, ok := strings.CutPrefix(c, "background-"); ok {
				if col, ok := termColor(rest); ok {
					st = st.Background(col)
				}
			}
		}
	}
	return st
}

// termColor parses the color part of a foreground-/background- class:
// "red", "bright-red", "256-208" or "rgb-1-2-3".
func termColor(s string) (lipgloss.Color, bool) {
	if name, ok := strings.CutPrefix(s, "bright-"); ok {
		if i, ok := colorIndex[name]; ok {
			return lipgloss.Color(strconv.Itoa(i + 8)), true
		}
		return "", false
	}
	if i, ok := colorIndex[s]; ok {
		return lipgloss.Color(strconv.Itoa(i)), true
	}
	if n, ok := strings.CutPrefix(s, "256-"); ok {
		if _, err := strconv.Atoi(n); err == nil {
			return lipgloss.Color(n), true
		}
		return "", false
	}
	if rgb, ok := strings.CutPrefix(s, "rgb-"); ok {
		f := strings.Split(rgb, "-")
		if len(f) != 3 {
			return "", false
		}
		var v [3]int
		for i := range f {
			n, err := strconv.Atoi(f[i])
			if err != nil || n < 0 || n > 255 {
				return "", false
			}
			v[i] = n
		}
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", v[0], v[1], v[2])), true
	}
	return "", false
}

type termContainer struct {
	t      *TermTree
	style  lipgloss.Style
	styled bool
}

func (c termContainer) AppendText(s string) {
	if !c.styled {
		c.t.write(s)
		return
	}
	// style line by line so lipgloss does not pad lines to a common width
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if ln != "" {
			lines[i] = c.style.Render(ln)
		}
	}
	c.t.write(strings.Join(lines, "\n"))
}

func (c termContainer) AppendContainer(classes []string) Container {
	return termContainer{t: c.t, style: c.t.Style(classes), styled: len(classes) > 0}
}
