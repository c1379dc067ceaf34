// Package sgr decodes ANSI SGR (Select Graphic Rendition) sequences from a
// fragmented terminal byte stream into text runs and style changes.
package sgr

import (
	"strconv"
	"strings"
)

const esc = 0x1b

// MaxSequenceLength bounds a single escape sequence, introducer included.
// Longer sequences are given up on and passed through as text.
const MaxSequenceLength = 256

type csiState int

const (
	csiComplete csiState = iota
	csiIncomplete
	csiAborted
)

// Decoder turns successive fragments of one stream into Parts. A sequence
// split across fragments decodes exactly like the unsplit input.
//
// A Decoder belongs to a single stream and is not safe for concurrent use.
type Decoder struct {
	pending string
	attrs   AttributeSet
}

// NewDecoder returns a decoder with no active styling.
func NewDecoder() *Decoder { return &Decoder{} }

// Pending returns the bytes of an unterminated sequence held for the next
// call to Add.
func (d *Decoder) Pending() string { return d.pending }

// Add decodes fragment and returns the parts it completes, in order. It may
// return no parts at all.
func (d *Decoder) Add(fragment string) []Part {
	data := d.pending + fragment
	d.pending = ""

	var parts []Part
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, Text(text.String()))
			text.Reset()
		}
	}

	i := 0
	for i < len(data) {
		j := strings.IndexByte(data[i:], esc)
		if j < 0 {
			text.WriteString(data[i:])
			break
		}
		text.WriteString(data[i : i+j])
		i += j
		if i+1 == len(data) {
			// lone ESC; the introducer may arrive with the next fragment
			d.pending = data[i:]
			break
		}
		if data[i+1] != '[' {
			text.WriteByte(esc)
			i++
			continue
		}
		end, state := scanCSI(data, i)
		switch state {
		case csiIncomplete:
			d.pending = data[i:]
		case csiAborted:
			text.WriteString(data[i:end])
		case csiComplete:
			if data[end-1] == 'm' {
				if p, ok := d.apply(data[i+2 : end-1]); ok {
					flush()
					parts = append(parts, p)
				}
			}
		}
		i = end
	}
	flush()
	return parts
}

// scanCSI looks for the final byte of the sequence introduced at data[start].
// It returns the index just past the sequence (or past the last byte that
// belonged to it when aborted).
func scanCSI(data string, start int) (int, csiState) {
	for k := start + 2; k < len(data); k++ {
		if k-start >= MaxSequenceLength {
			return k, csiAborted
		}
		c := data[k]
		switch {
		case c >= 0x40 && c <= 0x7e:
			return k + 1, csiComplete
		case c >= 0x20 && c <= 0x3f:
		default:
			return k, csiAborted
		}
	}
	return len(data), csiIncomplete
}

// param is one semicolon separated SGR parameter. Malformed parameters are
// kept in place so extended color forms still consume the right fields.
type param struct {
	n  int
	ok bool
}

func parseParams(raw string) []param {
	if raw == "" {
		return []param{{n: 0, ok: true}}
	}
	fields := strings.Split(raw, ";")
	out := make([]param, len(fields))
	for i, f := range fields {
		if f == "" {
			out[i] = param{n: 0, ok: true}
			continue
		}
		if strings.TrimLeft(f, "0123456789") != "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		out[i] = param{n: n, ok: true}
	}
	return out
}

// apply merges the parameters of one SGR sequence into the cumulative set
// and returns the resulting style change. A sequence that leaves an empty
// set untouched (only unknown or malformed codes) yields no part, so
// "reset" always stands for an explicit or effective clear.
func (d *Decoder) apply(raw string) (Part, bool) {
	params := parseParams(raw)
	cleared := len(d.attrs) > 0
	for i := 0; i < len(params); i++ {
		p := params[i]
		if !p.ok {
			continue
		}
		switch code := p.n; {
		case code == 0:
			d.attrs = d.attrs[:0]
			cleared = true
		case code == 38 || code == 48:
			prefix := foregroundPrefix
			if code == 48 {
				prefix = backgroundPrefix
			}
			a, used := extendedColor(prefix, params[i+1:])
			i += used
			if a != "" {
				d.attrs = d.attrs.with(a)
			}
		default:
			if a, ok := flagCodes[code]; ok {
				d.attrs = d.attrs.with(a)
			} else if cats, ok := offCodes[code]; ok {
				d.attrs = d.attrs.without(cats...)
			} else if a, ok := colorAttribute(code); ok {
				d.attrs = d.attrs.with(a)
			}
		}
	}
	if len(d.attrs) == 0 {
		if !cleared {
			return Part{}, false
		}
		return StyleChange(Reset), true
	}
	return StyleChange(d.attrs...), true
}

// extendedColor decodes the "5;n" and "2;r;g;b" forms that follow 38/48.
// used is the number of parameters consumed, even when they turn out to be
// malformed.
func extendedColor(prefix string, rest []param) (a Attribute, used int) {
	if len(rest) == 0 || !rest[0].ok {
		return "", 0
	}
	switch rest[0].n {
	case 5:
		if len(rest) < 2 {
			return "", len(rest)
		}
		if n := rest[1]; n.ok && n.n <= 255 {
			return indexedColor(prefix, n.n), 2
		}
		return "", 2
	case 2:
		if len(rest) < 4 {
			return "", len(rest)
		}
		r, g, b := rest[1], rest[2], rest[3]
		if r.ok && g.ok && b.ok && r.n <= 255 && g.n <= 255 && b.n <= 255 {
			return rgbColor(prefix, r.n, g.n, b.n), 4
		}
		return "", 4
	}
	return "", 0
}
