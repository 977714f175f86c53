package render

import (
	"context"
	"io"
	"net/http"
)

// StreamingComposer writes the document head before the body is rendered,
// so the browser can fetch stylesheets and scripts while async
// components are still pending. Styles collected during the pass are
// emitted in a style block at the top of the body.
type StreamingComposer struct {
	*Composer
}

// NewStreamingComposer wraps c with incremental flushing.
func NewStreamingComposer(c *Composer) *StreamingComposer {
	return &StreamingComposer{Composer: c}
}

// Stream renders page to w, flushing after the head and after the body
// when w implements http.Flusher.
func (s *StreamingComposer) Stream(ctx context.Context, w io.Writer, page PageData) (*Result, error) {
	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	page = s.withDefaults(page)
	dw := &docWriter{w: w}
	writeDocumentHead(dw, page)
	dw.str("</head>\n<body>\n")
	if dw.err != nil {
		return nil, dw.err
	}

	// Flush head immediately for faster first paint
	flush()

	res := s.RenderBody(ctx, page.Body)
	writeStyleBlock(dw, res.Styles)
	dw.str(res.HTML)
	flush()

	writeDocumentTail(dw, page)
	flush()
	return res, dw.err
}

// Handler adapts fn to an http.Handler that streams documents.
func (s *StreamingComposer) Handler(fn PageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := fn(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := s.Stream(r.Context(), w, page); err != nil {
			s.logger.Debug("stream page", "path", r.URL.Path, "error", err)
		}
	})
}

// FlushableWriter wraps an io.Writer with optional flushing capability.
// This is useful for testing streaming behavior without using http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
