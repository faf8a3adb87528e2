// Package utils holds small io helpers.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// HoldWriter passes writes through to its destination until Hold is
// called. While held, writes are buffered in memory; Release flushes them
// and resumes pass-through. Safe for concurrent use.
type HoldWriter struct {
	mu   sync.Mutex
	dst  io.Writer
	buf  bytes.Buffer
	held bool
}

// NewHoldWriter returns a pass-through writer to dst.
func NewHoldWriter(dst io.Writer) *HoldWriter {
	return &HoldWriter{dst: dst}
}

// Write forwards p or buffers it while held.
func (h *HoldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.held {
		return h.buf.Write(p)
	}
	return h.dst.Write(p)
}

// Hold starts buffering writes.
func (h *HoldWriter) Hold() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.held = true
}

// Release writes the buffered data to the destination and stops buffering.
func (h *HoldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.held = false

	if h.buf.Len() == 0 {
		return nil
	}
	_, err := h.buf.WriteTo(h.dst)
	return err
}
