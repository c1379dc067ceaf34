package stream

import (
	"fmt"
	"net/url"
)

// Mode selects how a viewer treats text payloads.
type Mode int

const (
	// ModeIncremental decodes payloads and renders styled containers.
	ModeIncremental Mode = iota
	// ModeHTML writes payloads into the document verbatim.
	ModeHTML
)

func (m Mode) String() string {
	if m == ModeHTML {
		return "html"
	}
	return "incremental"
}

// ParseMode accepts "html" and "incremental" (or "").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "incremental", "text":
		return ModeIncremental, nil
	case "html":
		return ModeHTML, nil
	}
	return ModeIncremental, fmt.Errorf("unknown mode %q", s)
}

// ModeFromQuery reads the t=html switch from a page query string.
func ModeFromQuery(q url.Values) Mode {
	if q.Get("t") == "html" {
		return ModeHTML
	}
	return ModeIncremental
}
