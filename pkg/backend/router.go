// Package backend connects completion backend IDs to concrete model
// provider clients.
//
// A backend ID is either "provider/model" (for example
// "anthropic/claude-sonnet-4-20250514") or a bare model name whose provider is
// inferred from its prefix:
//
//	gemini*             gemini
//	claude*             anthropic
//	gpt*, o1*, o3*, o4*  openai
package backend

import (
	"context"
	"strings"
	"sync"

	"github.com/nikogura/resume-refiner/pkg/completion"
	"github.com/pkg/errors"
)

// Provider names a model vendor.
type Provider string

const (
	Gemini    Provider = "gemini"
	Anthropic Provider = "anthropic"
	OpenAI    Provider = "openai"
)

// Client sends a single prompt to one provider. Implementations report HTTP
// failures as *completion.StatusError and must not retry on their own.
type Client interface {
	Complete(ctx context.Context, model, prompt string) (text string, err error)
}

// ParseID splits a backend ID into provider and model.
func ParseID(id completion.BackendID) (provider Provider, model string, err error) {
	raw := strings.TrimSpace(string(id))
	if raw == "" {
		err = errors.New("empty backend id")
		return provider, model, err
	}

	if p, m, ok := strings.Cut(raw, "/"); ok {
		provider = Provider(strings.ToLower(strings.TrimSpace(p)))
		model = strings.TrimSpace(m)
		if model == "" {
			err = errors.Errorf("backend id %q has no model", raw)
			return provider, model, err
		}
		switch provider {
		case Gemini, Anthropic, OpenAI:
		default:
			err = errors.Errorf("backend id %q: unknown provider %q", raw, p)
		}
		return provider, model, err
	}

	model = raw
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "gemini"):
		provider = Gemini
	case strings.HasPrefix(lower, "claude"):
		provider = Anthropic
	case strings.HasPrefix(lower, "gpt"), strings.HasPrefix(lower, "o1"),
		strings.HasPrefix(lower, "o3"), strings.HasPrefix(lower, "o4"):
		provider = OpenAI
	default:
		err = errors.Errorf("cannot infer provider for backend %q: use provider/model", raw)
	}
	return provider, model, err
}

// Router dispatches completion requests to registered provider clients.
// It implements completion.Invoker.
type Router struct {
	mu      sync.RWMutex
	clients map[Provider]Client
}

// NewRouter creates an empty Router.
func NewRouter() (r *Router) {
	r = &Router{clients: make(map[Provider]Client)}
	return r
}

// Register sets the client used for provider, replacing any previous one.
func (r *Router) Register(provider Provider, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[provider] = client
}

// Has reports whether a client is registered for provider.
func (r *Router) Has(provider Provider) (ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok = r.clients[provider]
	return ok
}

// Invoke resolves backend and sends prompt to its provider. Unknown or
// unregistered providers are configuration errors and carry no status.
func (r *Router) Invoke(ctx context.Context, backend completion.BackendID, prompt string) (text string, err error) {
	var provider Provider
	var model string
	provider, model, err = ParseID(backend)
	if err != nil {
		return text, err
	}

	r.mu.RLock()
	client, ok := r.clients[provider]
	r.mu.RUnlock()
	if !ok {
		err = errors.Errorf("no %s client configured for backend %q (missing API key?)", provider, backend)
		return text, err
	}

	text, err = client.Complete(ctx, model, prompt)
	if err != nil {
		err = errors.Wrapf(err, "%s", backend)
		return text, err
	}
	return text, err
}

// Unavailable lists the backends of chain whose provider has no client.
func (r *Router) Unavailable(chain completion.Chain) (missing []completion.BackendID) {
	for _, id := range chain {
		provider, _, err := ParseID(id)
		if err != nil || !r.Has(provider) {
			missing = append(missing, id)
		}
	}
	return missing
}
