package view

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Fallback copy shown once the page has faulted.
const (
	FallbackTitle = "Oops! Something went wrong."
	FallbackBody  = "There was an error loading the portfolio. Please try again later or contact me directly."
)

// Root is the top of a rendered page. It renders either the normal tree or,
// once any render has failed, the fallback tree. The fault is sticky: a page
// that broke once keeps showing the apology rather than half a page.
type Root struct {
	mu    sync.Mutex
	fault error
}

// Fail records err as the root's fault. The first fault wins.
func (r *Root) Fail(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fault == nil {
		r.fault = err
	}
}

// Fault returns the recorded fault, if any.
func (r *Root) Fault() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fault
}

// Faulted reports whether a fault has been recorded.
func (r *Root) Faulted() bool { return r.Fault() != nil }

// Render writes main to w. main is rendered into a buffer first so a failure
// part way through never reaches w; on failure the fault is recorded and
// fallback is written instead. The returned error is the fault that caused
// the fallback, or the fallback's own error.
func (r *Root) Render(w io.Writer, main, fallback func(io.Writer) error) error {
	if fault := r.Fault(); fault != nil {
		if err := fallback(w); err != nil {
			return fmt.Errorf("render fallback: %w", err)
		}
		return fault
	}

	var buf bytes.Buffer
	if err := main(&buf); err != nil {
		r.Fail(err)
		if ferr := fallback(w); ferr != nil {
			return fmt.Errorf("render fallback: %w", ferr)
		}
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
