// Package render applies decoded SGR parts to a flat tree of styled
// containers.
package render

import (
	"strings"

	"webtee/internal/sgr"
)

// Container is a node of the display tree that can take children.
type Container interface {
	// AppendText adds a literal text node as the last child.
	AppendText(s string)
	// AppendContainer adds an empty styled container, tagged with classes,
	// as the last child and returns it.
	AppendContainer(classes []string) Container
}

// Renderer tracks the currently open container. Containers are always
// children of the root, so the tree is never more than one level deep.
type Renderer struct {
	root Container
	open Container
}

// New returns a renderer appending to root.
func New(root Container) *Renderer {
	return &Renderer{root: root}
}

// Push applies one part to the tree.
func (r *Renderer) Push(p sgr.Part) {
	switch p.Kind {
	case sgr.PartText:
		r.target().AppendText(p.Text)
	case sgr.PartStyleChange:
		if p.IsReset() {
			r.open = nil
			return
		}
		// always a fresh container, even when attrs repeat the open one
		r.open = r.root.AppendContainer(Classes(p.Attrs))
	}
}

// PushAll applies parts in order.
func (r *Renderer) PushAll(parts []sgr.Part) {
	for _, p := range parts {
		r.Push(p)
	}
}

// Reset closes the open container; later text goes to the root.
func (r *Renderer) Reset() { r.open = nil }

func (r *Renderer) target() Container {
	if r.open != nil {
		return r.open
	}
	return r.root
}

// Classes turns attributes into class tokens: empty attributes are skipped
// and spaces become hyphens.
func Classes(attrs sgr.AttributeSet) []string {
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(string(a), " ", "-"))
	}
	return out
}
