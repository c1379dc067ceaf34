package stream

import (
	"errors"
	"sync"

	"webtee/internal/sgr"
	"webtee/internal/system"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("tee closed")

// subscriberBuffer is the per-viewer channel capacity.
const subscriberBuffer = 64

// TeeOptions configures a Tee.
type TeeOptions struct {
	// HistoryBytes bounds the output replayed to late viewers; 0 disables
	// replay.
	HistoryBytes int
	// WaitForViewer makes Write block while nobody is watching.
	WaitForViewer bool
}

// Tee fans terminal output out to every subscribed viewer.
type Tee struct {
	opts TeeOptions

	mu        sync.Mutex
	cond      *sync.Cond
	subs      map[*subscriber]struct{}
	history   []string
	histBytes int
	closed    bool
	// subscriptions not yet cancelled, including ones still draining a
	// closed stream
	attached int

	// serializes delivery so Close never races a send
	writeMu sync.Mutex
}

type subscriber struct {
	ch   chan Message
	done chan struct{}
	once sync.Once
}

// Subscription is one viewer's feed. Replay holds output written before
// the viewer attached; C carries everything after and is closed once the
// stream ends.
type Subscription struct {
	Replay []Message
	C      <-chan Message

	t   *Tee
	sub *subscriber
}

// NewTee returns an open Tee.
func NewTee(opts TeeOptions) *Tee {
	t := &Tee{opts: opts, subs: map[*subscriber]struct{}{}}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Subscribe attaches a viewer. Call Cancel on the subscription when the
// viewer goes away.
func (t *Tee) Subscribe() *Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()

	sub := &subscriber{ch: make(chan Message, subscriberBuffer), done: make(chan struct{})}
	replay := make([]Message, 0, len(t.history)+1)
	for _, h := range t.history {
		replay = append(replay, TextMessage(h))
	}
	if t.closed {
		replay = append(replay, EOFMessage())
		close(sub.ch)
	} else {
		t.subs[sub] = struct{}{}
		t.cond.Broadcast()
	}
	t.attached++
	system.Logger.Debug("viewer attached", "viewers", t.attached, "replay", len(replay))
	return &Subscription{Replay: replay, C: sub.ch, t: t, sub: sub}
}

// Cancel detaches the viewer. It is safe to call more than once.
func (s *Subscription) Cancel() {
	first := false
	s.sub.once.Do(func() {
		close(s.sub.done)
		first = true
	})
	if !first {
		return
	}
	s.t.mu.Lock()
	delete(s.t.subs, s.sub)
	s.t.attached--
	s.t.mu.Unlock()
}

// Viewers returns the number of subscriptions not yet cancelled. A viewer
// still delivering the end of a closed stream counts as attached.
func (t *Tee) Viewers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attached
}

// Closed reports whether Close has been called.
func (t *Tee) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// History returns the retained output, oldest first.
func (t *Tee) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}

// Write sends a copy of p to every viewer.
func (t *Tee) Write(p []byte) (int, error) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	data := string(p)
	t.mu.Lock()
	for t.opts.WaitForViewer && len(t.subs) == 0 && !t.closed {
		system.Logger.Debug("tee: no viewers; waiting for one")
		t.cond.Wait()
	}
	if t.closed {
		t.mu.Unlock()
		return 0, ErrClosed
	}
	t.remember(data)
	subs := t.snapshot()
	t.mu.Unlock()

	system.Logger.Debug("tee: sending", "bytes", len(p), "viewers", len(subs))
	msg := TextMessage(data)
	for _, s := range subs {
		select {
		case s.ch <- msg:
		case <-s.done:
		}
	}
	return len(p), nil
}

// Close ends the stream: viewers receive an eof message and their channels
// are closed. Blocked writers return ErrClosed.
func (t *Tee) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.cond.Broadcast()
	t.mu.Unlock()

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	t.mu.Lock()
	subs := t.snapshot()
	t.subs = map[*subscriber]struct{}{}
	t.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- EOFMessage():
		case <-s.done:
		}
		close(s.ch)
	}
	return nil
}

// remember appends to the replay history, dropping the oldest chunks past
// the byte budget. The head of the history always starts outside an escape
// sequence: a sequence cut by a dropped chunk is carried into the next one.
// Called with mu held.
func (t *Tee) remember(data string) {
	if t.opts.HistoryBytes <= 0 {
		return
	}
	t.history = append(t.history, data)
	t.histBytes += len(data)
	for t.histBytes > t.opts.HistoryBytes && len(t.history) > 1 {
		dropped := t.history[0]
		t.histBytes -= len(dropped)
		t.history = t.history[1:]
		dec := sgr.NewDecoder()
		dec.Add(dropped)
		if tail := dec.Pending(); tail != "" {
			t.history[0] = tail + t.history[0]
			t.histBytes += len(tail)
		}
	}
}

func (t *Tee) snapshot() []*subscriber {
	out := make([]*subscriber, 0, len(t.subs))
	for s := range t.subs {
		out = append(out, s)
	}
	return out
}
