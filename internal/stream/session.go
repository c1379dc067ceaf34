package stream

import (
	"webtee/internal/render"
	"webtee/internal/sgr"
	"webtee/internal/system"
)

// View is the display a Session draws into.
type View interface {
	// Root is the container unstyled text is appended to.
	Root() render.Container
	// SetDone marks the view as finished.
	SetDone()
	// WriteDocument writes a payload verbatim in html mode.
	WriteDocument(markup string)
}

// Session is the viewer side of one connection: it owns the decoder and
// renderer state for that stream. Messages must be handled one at a time.
type Session struct {
	mode Mode
	view View
	dec  *sgr.Decoder
	ren  *render.Renderer
	done bool
}

// NewSession binds a fresh decoder/renderer pair to view. The mode is fixed
// for the lifetime of the session.
func NewSession(view View, mode Mode) *Session {
	return &Session{
		mode: mode,
		view: view,
		dec:  sgr.NewDecoder(),
		ren:  render.New(view.Root()),
	}
}

// Mode reports the session's rendering mode.
func (s *Session) Mode() Mode { return s.mode }

// Done reports whether an eof message has been handled.
func (s *Session) Done() bool { return s.done }

// Handle processes one inbound message to completion.
func (s *Session) Handle(m Message) {
	if s.done {
		system.Logger.Debug("message after eof ignored", "type", m.Type)
		return
	}
	switch m.Type {
	case TypeText:
		if s.mode == ModeHTML {
			s.view.WriteDocument(m.Data)
			return
		}
		s.ren.PushAll(s.dec.Add(m.Data))
	case TypeEOF:
		s.done = true
		s.view.SetDone()
	default:
		system.Logger.Debug("unrecognized message ignored", "type", m.Type)
	}
}

// HandleFrame decodes a raw transport frame and handles it. Undecodable
// frames are logged and skipped.
func (s *Session) HandleFrame(b []byte) {
	m, err := Decode(b)
	if err != nil {
		system.Logger.Warn("dropping frame", "err", err)
		return
	}
	s.Handle(m)
}
