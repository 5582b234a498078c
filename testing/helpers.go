// Package testing provides test utilities and helpers for ferry users.
// These utilities help users test their own ferry-based destinations.
package testing

import (
	"sync"
	"time"

	"github.com/zoobzio/ferry"
)

// CaptureWriter is a test destination that records every write.
// Thread-safe for concurrent use in tests.
type CaptureWriter struct {
	mu      sync.Mutex
	writes  [][]byte
	err     error
	onWrite func(data []byte)
}

// NewCaptureWriter creates a new CaptureWriter for testing.
func NewCaptureWriter() *CaptureWriter {
	return &CaptureWriter{
		writes: make([][]byte, 0),
	}
}

// WithError makes every subsequent Write fail with err.
func (w *CaptureWriter) WithError(err error) *CaptureWriter {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.err = err
	return w
}

// WithWriteCallback sets a callback to be invoked on each Write call.
func (w *CaptureWriter) WithWriteCallback(fn func(data []byte)) *CaptureWriter {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onWrite = fn
	return w
}

// Write records a copy of p, or fails if an error is configured.
func (w *CaptureWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	if w.err != nil {
		err := w.err
		w.mu.Unlock()
		return 0, err
	}
	data := make([]byte, len(p))
	copy(data, p)
	w.writes = append(w.writes, data)
	onWrite := w.onWrite
	w.mu.Unlock()

	if onWrite != nil {
		onWrite(data)
	}
	return len(p), nil
}

// Writes returns a copy of all recorded writes.
func (w *CaptureWriter) Writes() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	result := make([][]byte, len(w.writes))
	copy(result, w.writes)
	return result
}

// WriteCount returns the number of recorded writes.
func (w *CaptureWriter) WriteCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.writes)
}

// Bytes returns all recorded writes concatenated in order.
func (w *CaptureWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []byte
	for _, data := range w.writes {
		out = append(out, data...)
	}
	return out
}

// Reset clears all recorded writes.
func (w *CaptureWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = w.writes[:0]
}

// NewLogEvent creates an event with the message and timestamp fields a log
// record carries, for use as emitter input in tests.
func NewLogEvent(message string, timestamp time.Time) *ferry.Event {
	e := ferry.NewEvent()
	e.Insert("message", ferry.String(message))
	e.Insert("timestamp", ferry.Timestamp(timestamp))
	return e
}
