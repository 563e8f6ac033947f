package llm

import "errors"

// ErrModelNotFound is surfaced as a 400 at the HTTP boundary. The text is the
// client-facing detail and is load-bearing for existing frontends.
var ErrModelNotFound = errors.New("Model does not exists")

// Dispatcher owns the registered providers and routes each conversation to
// the first provider whose descriptor matches the requested model key. It
// holds no per-request state; a single instance is shared across requests.
type Dispatcher struct {
	providers []Provider
	models    []ChatModel
	fallback  bool
}

// NewDispatcher registers providers in order. Registration order is the
// tie-break: if two providers advertise the same model key, only the first is
// reachable. When fallback is true an unmatched model is routed to the first
// registered provider instead of failing.
func NewDispatcher(fallback bool, providers ...Provider) *Dispatcher {
	d := &Dispatcher{providers: providers, fallback: fallback}
	for _, p := range providers {
		d.models = append(d.models, p.Model())
	}
	return d
}

// Models lists every registered descriptor for client-side model pickers.
func (d *Dispatcher) Models() []ChatModel {
	return d.models
}

// Select returns the provider serving the given model key, or
// ErrModelNotFound when nothing matches and no fallback is configured.
func (d *Dispatcher) Select(model string) (Provider, error) {
	for i, m := range d.models {
		if m.Model == model {
			return d.providers[i], nil
		}
	}
	if d.fallback && len(d.providers) > 0 {
		return d.providers[0], nil
	}
	return nil, ErrModelNotFound
}
