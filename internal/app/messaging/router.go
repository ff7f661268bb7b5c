package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/webdock/internal/logging"
)

const commandQueueSize = 64

// MessageHandler handles a decoded message payload.
type MessageHandler interface {
	Handle(ctx context.Context, payload json.RawMessage) (any, error)
}

// MessageHandlerFunc adapts a function to the MessageHandler interface.
type MessageHandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// Handle calls f(ctx, payload).
func (f MessageHandlerFunc) Handle(ctx context.Context, payload json.RawMessage) (any, error) {
	return f(ctx, payload)
}

type kind int

const (
	kindCommand kind = iota
	kindQuery
)

type handlerEntry struct {
	handler MessageHandler
	kind    kind
}

type job struct {
	msg   Message
	entry handlerEntry
}

// Router dispatches messages. Queries run synchronously on the caller and
// return a Response. Commands are fire-and-forget: they run one at a time,
// in arrival order, on the router's worker.
type Router struct {
	baseCtx context.Context

	mu       sync.RWMutex
	handlers map[string]handlerEntry

	queue   chan job
	done    chan struct{}
	once    sync.Once
	started sync.Once
	closed  bool
}

// NewRouter creates a router. Call Start before dispatching commands.
func NewRouter(ctx context.Context) *Router {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Router{
		baseCtx:  logging.WithComponent(ctx, "message-router"),
		handlers: make(map[string]handlerEntry),
		queue:    make(chan job, commandQueueSize),
		done:     make(chan struct{}),
	}
}

// RegisterCommand registers a fire-and-forget handler.
func (r *Router) RegisterCommand(msgType string, handler MessageHandler) error {
	return r.register(msgType, handler, kindCommand)
}

// RegisterQuery registers a synchronous handler.
func (r *Router) RegisterQuery(msgType string, handler MessageHandler) error {
	return r.register(msgType, handler, kindQuery)
}

func (r *Router) register(msgType string, handler MessageHandler, k kind) error {
	if msgType == "" {
		return errors.New("message type cannot be empty")
	}
	if handler == nil {
		return errors.New("message handler cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[msgType]; exists {
		return fmt.Errorf("handler for %q already registered", msgType)
	}
	r.handlers[msgType] = handlerEntry{handler: handler, kind: k}
	return nil
}

// Start runs the command worker until Close.
func (r *Router) Start() {
	r.started.Do(func() {
		go r.loop()
	})
}

func (r *Router) loop() {
	defer close(r.done)
	for j := range r.queue {
		r.runCommand(j)
	}
}

func (r *Router) runCommand(j job) {
	log := logging.FromContext(r.baseCtx)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("type", j.msg.Type).Msg("command handler panicked")
		}
	}()

	if _, err := j.entry.handler.Handle(r.baseCtx, j.msg.Payload); err != nil {
		log.Warn().Err(err).Str("type", j.msg.Type).Str("request_id", j.msg.RequestID).Msg("command failed")
		return
	}
	log.Debug().Str("type", j.msg.Type).Msg("command handled")
}

// Dispatch decodes data and routes it. It returns a Response for queries
// and nil for commands.
func (r *Router) Dispatch(ctx context.Context, data []byte) (*Response, error) {
	msg, err := parseMessage(data)
	if err != nil {
		return nil, err
	}
	return r.DispatchMessage(ctx, msg)
}

// DispatchMessage routes an already decoded message.
func (r *Router) DispatchMessage(ctx context.Context, msg Message) (*Response, error) {
	r.mu.RLock()
	entry, ok := r.handlers[msg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, msg.Type)
	}

	if entry.kind == kindQuery {
		resp := &Response{Type: msg.Type, RequestID: msg.RequestID}
		result, err := entry.handler.Handle(ctx, msg.Payload)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = result
		}
		return resp, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The send never blocks, so holding the read lock cannot stall Close.
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrRouterClosed
	}
	select {
	case r.queue <- job{msg: msg, entry: entry}:
		return nil, nil
	default:
		logging.FromContext(r.baseCtx).Warn().Str("type", msg.Type).Msg("dropping command, queue full")
		return nil, ErrQueueFull
	}
}

// Close stops accepting commands and waits for queued ones to finish.
func (r *Router) Close() {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.queue)
		r.Start()
		<-r.done
	})
}
