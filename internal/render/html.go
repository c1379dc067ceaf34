package render

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContentID is the id of the root element holding rendered output.
const ContentID = "content"

// DoneClass marks the root once the stream has ended.
const DoneClass = "done"

// HTMLTree is a server-side display tree: a <pre id="content"> root holding
// text nodes and <span class="..."> containers.
type HTMLTree struct {
	root *html.Node

	// raw document mode: payloads are written verbatim instead of rendered
	raw     strings.Builder
	rawMode bool
}

// NewHTMLTree returns an empty tree.
func NewHTMLTree() *HTMLTree {
	return &HTMLTree{root: &html.Node{
		Type:     html.ElementNode,
		Data:     "pre",
		DataAtom: atom.Pre,
		Attr:     []html.Attribute{{Key: "id", Val: ContentID}},
	}}
}

// Root returns the container that receives unstyled text.
func (t *HTMLTree) Root() Container { return htmlContainer{n: t.root} }

// SetDone tags the root with the terminal "done" class.
func (t *HTMLTree) SetDone() {
	for i, a := range t.root.Attr {
		if a.Key == "class" {
			t.root.Attr[i].Val = DoneClass
			return
		}
	}
	t.root.Attr = append(t.root.Attr, html.Attribute{Key: "class", Val: DoneClass})
}

// Done reports whether SetDone was called.
func (t *HTMLTree) Done() bool {
	for _, a := range t.root.Attr {
		if a.Key == "class" && a.Val == DoneClass {
			return true
		}
	}
	return false
}

// WriteDocument switches the tree to raw document mode and appends markup.
// The first call discards whatever had been rendered, like a
// document.write issued after page load.
func (t *HTMLTree) WriteDocument(markup string) {
	t.rawMode = true
	t.raw.WriteString(markup)
}

// Render writes the tree as HTML, or the raw document in document mode.
func (t *HTMLTree) Render(w io.Writer) error {
	if t.rawMode {
		_, err := io.WriteString(w, t.raw.String())
		return err
	}
	return html.Render(w, t.root)
}

// String renders the tree, ignoring write errors.
func (t *HTMLTree) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

type htmlContainer struct{ n *html.Node }

func (c htmlContainer) AppendText(s string) {
	c.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func (c htmlContainer) AppendContainer(classes []string) Container {
	span := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	if len(classes) > 0 {
		span.Attr = []html.Attribute{{Key: "class", Val: strings.Join(classes, " ")}}
	}
	c.n.AppendChild(span)
	return htmlContainer{n: span}
}
