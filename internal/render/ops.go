package render

// Op kinds sent to a remote page.
const (
	OpSpan     = "span"
	OpText     = "text"
	OpDocument = "document"
	OpDone     = "done"
)

// Op is one display mutation for a page that holds the real tree. Node 0 is
// the root; every span gets the next id.
type Op struct {
	Op      string   `json:"op"`
	Node    int      `json:"node,omitempty"`
	Parent  int      `json:"parent,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// OpTree is a display tree that lives elsewhere: each mutation is handed to
// emit as an Op, in order.
type OpTree struct {
	emit func(Op)
	next int
}

// NewOpTree returns a tree reporting mutations to emit.
func NewOpTree(emit func(Op)) *OpTree { return &OpTree{emit: emit} }

// Root returns node 0.
func (t *OpTree) Root() Container { return opContainer{t: t} }

// SetDone asks the page to mark the root done.
func (t *OpTree) SetDone() { t.emit(Op{Op: OpDone}) }

// WriteDocument forwards a raw html-mode payload.
func (t *OpTree) WriteDocument(markup string) { t.emit(Op{Op: OpDocument, Text: markup}) }

type opContainer struct {
	t  *OpTree
	id int
}

func (c opContainer) AppendText(s string) {
	c.t.emit(Op{Op: OpText, Node: c.id, Text: s})
}

func (c opContainer) AppendContainer(classes []string) Container {
	c.t.next++
	c.t.emit(Op{Op: OpSpan, Node: c.t.next, Parent: c.id, Classes: classes})
	return opContainer{t: c.t, id: c.t.next}
}
