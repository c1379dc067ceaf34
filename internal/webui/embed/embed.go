package embed

import "embed"

//go:generate sh -c "GOOS=js GOARCH=wasm go build -o dist/webtee.wasm ../../../cmd/webtee-wasm && cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" dist/"

// DistFS contains the viewer page. A wasm build of cmd/webtee-wasm dropped
// into dist/ as webtee.wasm (with Go's wasm_exec.js) is picked up by the
// page; without it the page renders the ops streamed by /api/render.
//
//go:embed all:dist
var DistFS embed.FS
