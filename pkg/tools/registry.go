package tools

import (
	"context"
	"encoding/json"
)

// Definition declares a tool to the generative engine: name, description
// and a JSON-schema parameter object.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Handler is one registered tool. Call receives the raw argument object and
// returns a JSON-serializable result or an error; the orchestrator encodes
// errors as {error} outputs so a failing tool never aborts the exchange.
type Handler interface {
	Definition() Definition
	Call(ctx context.Context, args json.RawMessage) (interface{}, error)
}

// Registry maps tool names to handlers. Registration happens once at
// bootstrap; lookups at run time are read-only.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		r.handlers[h.Definition().Name] = h
	}
	return r
}

// Lookup returns the handler for name, or false if none is registered.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Definitions lists every registered tool, for engine configuration.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.handlers))
	for _, h := range r.handlers {
		defs = append(defs, h.Definition())
	}
	return defs
}
