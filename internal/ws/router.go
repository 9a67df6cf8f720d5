package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrUnauthenticated is returned when a room operation arrives on a
	// connection whose handshake carried no uid.
	ErrUnauthenticated = errors.New("User not authenticated")

	errUnknownEvent = errors.New("unknown_event")
	// errInternal marks a recovered handler panic; the caller gets a
	// generic message, the detail only goes to the log.
	errInternal = errors.New("internal_fault")
)

var validate = validator.New()

// internal (untyped) handler signature.
type rawHandler func(c *ConnContext, body json.RawMessage) (any, error)

// Router keeps a map[event]handler, à-la gin.Engine.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRouter() *Router { return &Router{handlers: make(map[string]rawHandler)} }

// Register binds an event to a strongly-typed handler. The body is
// unmarshalled and validated before the handler runs.
func Register[Req any, Res any](
	r *Router,
	event string,
	h func(c *ConnContext, req Req) (Res, error),
) {
	if event == "" {
		panic("ws router: empty event")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[event] = func(c *ConnContext, body json.RawMessage) (any, error) {
		var req Req
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return nil, err
			}
		}
		if err := validate.Struct(&req); err != nil {
			return nil, err
		}
		return h(c, req)
	}
}

// dispatch is called by the server's reader loop. Handler panics are
// stopped here so one bad event can never take the process down.
func (r *Router) dispatch(c *ConnContext, env Envelope) (res any, err error) {
	r.mu.RLock()
	h, ok := r.handlers[env.Event]
	r.mu.RUnlock()
	if !ok {
		return nil, errUnknownEvent
	}

	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("ws.handler_panic",
				zap.String("event", env.Event), zap.Any("panic", rec))
			res, err = nil, errInternal
		}
	}()
	return h(c, env.Body)
}
