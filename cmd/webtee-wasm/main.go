//go:build js && wasm

// Command webtee-wasm is the browser viewer. It connects to the page's /ws
// endpoint and renders the stream into the #content element.
package main

import (
	"net/url"
	"strings"
	"sync"
	"syscall/js"

	"webtee/internal/render"
	"webtee/internal/stream"
	"webtee/internal/system"
)

var document = js.Global().Get("document")

// domContainer is a DOM element taking text nodes and <span> children.
type domContainer struct{ el js.Value }

func (c domContainer) AppendText(s string) {
	c.el.Call("appendChild", document.Call("createTextNode", s))
}

func (c domContainer) AppendContainer(classes []string) render.Container {
	span := document.Call("createElement", "span")
	list := span.Get("classList")
	for _, cls := range classes {
		list.Call("add", cls)
	}
	c.el.Call("appendChild", span)
	return domContainer{el: span}
}

// domView draws into the live page.
type domView struct{ root js.Value }

func (v domView) Root() render.Container { return domContainer{el: v.root} }

func (v domView) SetDone() {
	// html mode may have replaced the document; look the element up again
	el := document.Call("getElementById", render.ContentID)
	if el.Truthy() {
		el.Get("classList").Call("add", render.DoneClass)
	}
}

func (v domView) WriteDocument(markup string) {
	document.Call("write", markup)
}

func main() {
	loc := js.Global().Get("location")
	q, err := url.ParseQuery(strings.TrimPrefix(loc.Get("search").String(), "?"))
	if err != nil {
		system.Logger.Warn("bad query string", "err", err)
	}
	// the mode is read once; it cannot change for this page
	sess := stream.NewSession(domView{root: document.Call("getElementById", render.ContentID)}, stream.ModeFromQuery(q))

	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	ws := js.Global().Get("WebSocket").New(scheme + "//" + loc.Get("host").String() + "/ws")

	closed := make(chan struct{})
	var once sync.Once
	onMessage := js.FuncOf(func(this js.Value, args []js.Value) any {
		sess.HandleFrame([]byte(args[0].Get("data").String()))
		return nil
	})
	onClose := js.FuncOf(func(this js.Value, args []js.Value) any {
		once.Do(func() { close(closed) })
		return nil
	})
	ws.Set("onmessage", onMessage)
	ws.Set("onclose", onClose)

	<-closed
	onMessage.Release()
	onClose.Release()
}
