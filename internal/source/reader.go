// Package source produces terminal output for a Tee: a plain reader, a
// followed file, or a command running in a PTY.
package source

import (
	"context"
	"errors"
	"io"

	"webtee/internal/system"
)

// chunkSize is the read buffer for every source.
const chunkSize = 4096

// Copy forwards r to w chunk by chunk until EOF, an error, or ctx is done.
// Each chunk reaches w as soon as it is read.
func Copy(ctx context.Context, r io.Reader, w io.Writer) error {
	buf := make([]byte, chunkSize)
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			total += n
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				system.Logger.Debug("source drained", "bytes", total)
				return nil
			}
			return err
		}
	}
}
