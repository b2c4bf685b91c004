package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// clone copies r with ctx; the body is replayable through GetBody or buffered once.
func clone(ctx context.Context, r *http.Request) (*http.Request, error) {
	cloned := r.Clone(ctx)
	if r.Body == nil || r.Body == http.NoBody {
		return cloned, nil
	}
	if r.GetBody != nil {
		body, err := r.GetBody()
		if err != nil {
			return nil, err
		}
		cloned.Body = body
		return cloned, nil
	}
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(buf))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	cloned.Body = io.NopCloser(bytes.NewReader(buf))
	return cloned, nil
}
