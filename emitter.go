package ferry

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Internal identities for the emitter.
var (
	emitID            = pipz.NewIdentity("ferry:emit", "Encodes and writes to the destination")
	emitterPipelineID = pipz.NewIdentity("ferry:emitter", "Emitter pipeline")
)

// Envelope carries one outgoing event with its frame metadata through the
// emitter pipeline.
type Envelope struct {
	// Event is the outgoing event. The emitter clones it before applying
	// destination encoding rules, so the caller's copy is never rewritten.
	Event *Event

	// Metadata contains frame headers. The emitter stamps Content-Type and
	// Event-Id when not already present.
	Metadata Metadata
}

// Emitter serializes events for one destination: it clones each event,
// applies the destination's encoding configuration (field projection and
// timestamp rendering), marshals with the configured codec, and writes
// delimiter-framed payloads to the writer.
//
// The encoding configuration is validated at construction and immutable
// afterward, so one Emitter is safe for concurrent Emit calls; writes are
// serialized internally.
type Emitter struct {
	writer    io.Writer
	config    EncodingConfigWithDefault[Encoding]
	delimiter byte
	capitan   *capitan.Capitan
	pipeline  *pipz.Pipeline[*Envelope]
	inflight  sync.WaitGroup
	mu        sync.Mutex
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithDelimiter sets the frame delimiter (default: newline).
func WithDelimiter(d byte) EmitterOption {
	return func(em *Emitter) {
		em.delimiter = d
	}
}

// WithEmitterCapitan sets a custom Capitan instance for error signals.
func WithEmitterCapitan(c *capitan.Capitan) EmitterOption {
	return func(em *Emitter) {
		em.capitan = c
	}
}

// NewEmitter creates an Emitter writing to w under the given encoding
// configuration.
//
// Parameters:
//   - w: the destination byte stream
//   - config: codec, field projection, and timestamp rules for this destination
//   - pipelineOpts: reliability middleware (retry, backoff, timeout); nil for none
//   - opts: emitter configuration (delimiter, custom capitan instance)
//
// The configuration is validated here; an invalid configuration rejects the
// whole destination.
func NewEmitter(w io.Writer, config EncodingConfigWithDefault[Encoding], pipelineOpts []Option, opts ...EmitterOption) (*Emitter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	codec, ok := config.Codec().Codec()
	if !ok {
		return nil, ErrUnknownEncoding
	}

	em := &Emitter{
		writer:    w,
		config:    config,
		delimiter: '\n',
	}
	for _, opt := range opts {
		opt(em)
	}

	// Build pipeline: start with terminal, wrap with options
	chain := newEmitTerminal(em, codec)
	for _, opt := range pipelineOpts {
		chain = opt(chain)
	}
	em.pipeline = pipz.NewPipeline(emitterPipelineID, chain)

	return em, nil
}

// newEmitTerminal creates the terminal operation that applies encoding rules,
// marshals, and writes one frame.
func newEmitTerminal(em *Emitter, codec Codec) pipz.Chainable[*Envelope] {
	return pipz.Apply(emitID, func(_ context.Context, env *Envelope) (*Envelope, error) {
		event := env.Event.Clone()
		em.config.Apply(event)

		data, err := codec.Marshal(event.AsMap())
		if err != nil {
			return env, err
		}

		if _, exists := env.Metadata["Content-Type"]; !exists {
			env.Metadata["Content-Type"] = codec.ContentType()
		}
		if _, exists := env.Metadata["Event-Id"]; !exists {
			env.Metadata["Event-Id"] = uuid.New().String()
		}

		em.mu.Lock()
		defer em.mu.Unlock()
		if _, err := em.writer.Write(data); err != nil {
			return env, err
		}
		if _, err := em.writer.Write([]byte{em.delimiter}); err != nil {
			return env, err
		}
		return env, nil
	})
}

// Emit processes one event through the pipeline and writes it to the
// destination. The event itself is not mutated. Failures are returned and
// also emitted on ErrorSignal.
func (em *Emitter) Emit(ctx context.Context, e *Event) error {
	em.inflight.Add(1)
	defer em.inflight.Done()

	env := &Envelope{
		Event:    e,
		Metadata: make(Metadata),
	}

	_, err := em.pipeline.Process(ctx, env)
	if err != nil {
		em.emitError(ctx, err.Error(), env.Metadata)
	}
	return err
}

// emitError emits an error event to ErrorSignal.
func (em *Emitter) emitError(ctx context.Context, errMsg string, metadata Metadata) {
	e := Error{
		Operation: "emit",
		Encoding:  string(em.config.Codec()),
		Err:       errMsg,
	}
	if em.capitan != nil {
		em.capitan.Emit(ctx, ErrorSignal, ErrorKey.Field(e), MetadataKey.Field(copyMetadata(metadata)))
	} else {
		capitan.Emit(ctx, ErrorSignal, ErrorKey.Field(e), MetadataKey.Field(copyMetadata(metadata)))
	}
}

// Close waits for in-flight emits and releases pipeline resources.
// The caller is responsible for closing the underlying writer.
func (em *Emitter) Close() error {
	em.inflight.Wait()
	if em.pipeline != nil {
		return em.pipeline.Close()
	}
	return nil
}
