package ferry

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Internal identities for reliability options.
var (
	retryID   = pipz.NewIdentity("ferry:retry", "Retries failed emits")
	backoffID = pipz.NewIdentity("ferry:backoff", "Retries with exponential backoff")
	timeoutID = pipz.NewIdentity("ferry:timeout", "Enforces emit timeout")
)

// Option modifies an emitter pipeline for reliability features.
// Options wrap the terminal encode-and-write operation with additional
// behavior.
type Option func(pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope]

// WithRetry adds retry logic to the pipeline.
// Failed emits are retried up to maxAttempts times immediately.
func WithRetry(maxAttempts int) Option {
	return func(pipeline pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope] {
		return pipz.NewRetry(retryID, pipeline, maxAttempts)
	}
}

// WithBackoff adds retry logic with exponential backoff to the pipeline.
// The delay starts at baseDelay and doubles after each failure.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(pipeline pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope] {
		return pipz.NewBackoff(backoffID, pipeline, maxAttempts, baseDelay)
	}
}

// WithTimeout adds timeout protection to the pipeline.
// Emits exceeding this duration will be canceled.
func WithTimeout(duration time.Duration) Option {
	return func(pipeline pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope] {
		return pipz.NewTimeout(timeoutID, pipeline, duration)
	}
}

// WithEffect wraps a function that observes envelopes without modifying them.
// Use for logging, metrics, or notifications.
// Return an error to abort the emit.
func WithEffect(name string, fn func(context.Context, *Envelope) error) Option {
	return func(pipeline pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope] {
		id := pipz.NewIdentity(name, "")
		return pipz.NewSequence(id, pipz.Effect(id, fn), pipeline)
	}
}

// WithApply wraps a function that transforms envelopes and may fail.
// Use for validation, enrichment, or any operation that can error.
func WithApply(name string, fn func(context.Context, *Envelope) (*Envelope, error)) Option {
	return func(pipeline pipz.Chainable[*Envelope]) pipz.Chainable[*Envelope] {
		id := pipz.NewIdentity(name, "")
		return pipz.NewSequence(id, pipz.Apply(id, fn), pipeline)
	}
}
