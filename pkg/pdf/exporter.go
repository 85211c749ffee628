package pdf

import (
	"context"
	"errors"
	"time"

	"github.com/billify/billify-api/pkg/billing"
)

// Artifact is a binary document ready for download
type Artifact struct {
	Bytes    []byte
	MIMEType string
	Filename string
}

// ExportError wraps a rendering engine failure
type ExportError struct {
	Cause error
}

func (e *ExportError) Error() string {
	return "pdf export failed: " + e.Cause.Error()
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

var errEmptyOutput = errors.New("rendering produced empty output")

// Session is one isolated rendering session. A session renders exactly one
// document and must be closed on every exit path.
type Session interface {
	// Render draws the document into the session
	Render(doc *billing.Document) error
	// Output returns the finished document bytes
	Output() ([]byte, error)
	// Close tears down the session. Safe to call while rendering is still
	// in flight (cancellation) and safe to call more than once.
	Close() error
}

// Engine starts rendering sessions
type Engine interface {
	Start() (Session, error)
}

// Exporter converts structured invoice documents into PDF artifacts. Each
// export spins up its own engine session and tears it down before
// returning, regardless of outcome; sessions are never pooled or shared
// between concurrent exports.
type Exporter struct {
	engine  Engine
	timeout time.Duration
}

// NewExporter creates an exporter backed by the given engine
func NewExporter(engine Engine, timeout time.Duration) *Exporter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Exporter{engine: engine, timeout: timeout}
}

// Export renders the document to a PDF artifact. The session is closed on
// success, on render failure, and on context cancellation or timeout.
func (e *Exporter) Export(ctx context.Context, doc *billing.Document) (*Artifact, error) {
	session, err := e.engine.Start()
	if err != nil {
		return nil, &ExportError{Cause: err}
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type renderResult struct {
		bytes []byte
		err   error
	}
	done := make(chan renderResult, 1)

	go func() {
		if err := session.Render(doc); err != nil {
			done <- renderResult{err: err}
			return
		}
		out, err := session.Output()
		done <- renderResult{bytes: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &ExportError{Cause: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return nil, &ExportError{Cause: res.err}
		}
		if len(res.bytes) == 0 {
			return nil, &ExportError{Cause: errEmptyOutput}
		}
		return &Artifact{
			Bytes:    res.bytes,
			MIMEType: "application/pdf",
			Filename: "invoice.pdf",
		}, nil
	}
}
