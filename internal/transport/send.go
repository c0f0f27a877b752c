package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const sendChunk = 32 * 1024

// Send copies a job from r to w in chunks, checking ctx between chunks and
// calling progress after each one. total may be 0 when unknown.
func Send(ctx context.Context, w io.Writer, r io.Reader, total int64, progress func(done, total int64)) (int64, error) {
	cw, _ := w.(ContextWriter)
	buf := make([]byte, sendChunk)
	var sent int64
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			var m int
			var werr error
			if cw != nil {
				m, werr = cw.WriteContext(ctx, buf[:n])
			} else {
				m, werr = w.Write(buf[:n])
			}
			sent += int64(m)
			if werr == nil && m < n {
				werr = io.ErrShortWrite
			}
			if werr != nil {
				return sent, fmt.Errorf("write job: %w", werr)
			}
			if progress != nil {
				progress(sent, total)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return sent, nil
		}
		if rerr != nil {
			return sent, fmt.Errorf("read job: %w", rerr)
		}
	}
}
