package stream

import (
	"net/url"
	"strings"
	"testing"

	"webtee/internal/render"
)

func TestSession_TextThenEOF(t *testing.T) {
	tree := render.NewHTMLTree()
	s := NewSession(tree, ModeIncremental)
	s.Handle(TextMessage("hello \x1b[1mwor"))
	s.Handle(TextMessage("ld\x1b[0m!"))
	s.Handle(EOFMessage())
	if !s.Done() || !tree.Done() {
		t.Fatalf("eof not applied")
	}
	want := `<pre id="content" class="done">hello <span class="bold">world</span>!</pre>`
	if got := tree.String(); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	s.Handle(TextMessage("late"))
	if got := tree.String(); got != want {
		t.Fatalf("text after eof rendered: %s", got)
	}
}

func TestSession_UnknownTypeIgnored(t *testing.T) {
	tree := render.NewHTMLTree()
	s := NewSession(tree, ModeIncremental)
	s.Handle(Message{Type: "resize", Data: "80x24"})
	s.HandleFrame([]byte("{not json"))
	s.HandleFrame([]byte(`{"type":"text","data":"ok"}`))
	if got := tree.String(); got != `<pre id="content">ok</pre>` {
		t.Fatalf("got %s", got)
	}
	if s.Done() {
		t.Fatalf("unknown message ended the session")
	}
}

func TestSession_HTMLMode(t *testing.T) {
	tree := render.NewHTMLTree()
	s := NewSession(tree, ModeFromQuery(url.Values{"t": {"html"}}))
	if s.Mode() != ModeHTML {
		t.Fatalf("mode = %v", s.Mode())
	}
	s.Handle(TextMessage("<p>\x1b[1mraw"))
	s.Handle(TextMessage("</p>"))
	if got := tree.String(); got != "<p>\x1b[1mraw</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeIncremental, "incremental": ModeIncremental, "html": ModeHTML} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("xml"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if ModeFromQuery(url.Values{"t": {"text"}}) != ModeIncremental {
		t.Fatalf("t=text should stay incremental")
	}
}

func TestMessage_EncodeDecode(t *testing.T) {
	b, err := Encode(EOFMessage())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(b) != `{"type":"eof"}` {
		t.Fatalf("eof frame = %s", b)
	}
	m, err := Decode([]byte(`{"type":"text","data":"\u001b[1mx"}`))
	if err != nil || m.Type != TypeText || m.Data != "\x1b[1mx" {
		t.Fatalf("Decode = %+v, %v", m, err)
	}
}

func TestMessageSchema(t *testing.T) {
	b, err := MarshalSchema(MessageSchema())
	if err != nil {
		t.Fatalf("MarshalSchema: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"type"`, `"data"`, `"required"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("schema missing %s:\n%s", want, s)
		}
	}
}
