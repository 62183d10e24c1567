package completion

import (
	"context"
	"fmt"
	"strings"
)

type route struct {
	prefix  string
	backend Completer
}

// Router picks a backend by model id prefix, falling back to a default
type Router struct {
	routes   []route
	fallback Completer
}

// Ensure Router implements Completer
var _ Completer = (*Router)(nil)

// NewRouter creates a router with a fallback backend (may be nil)
func NewRouter(fallback Completer) *Router {
	return &Router{fallback: fallback}
}

// Route sends model ids starting with prefix to backend; first match wins
func (r *Router) Route(prefix string, backend Completer) *Router {
	r.routes = append(r.routes, route{prefix: prefix, backend: backend})
	return r
}

// Complete forwards the request to the backend serving its model
func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	backend := r.backendFor(req.Model)
	if backend == nil {
		return "", fmt.Errorf("no completion backend configured for model %s", req.Model)
	}
	return backend.Complete(ctx, req)
}

func (r *Router) backendFor(model string) Completer {
	for _, rt := range r.routes {
		if rt.backend != nil && strings.HasPrefix(model, rt.prefix) {
			return rt.backend
		}
	}
	return r.fallback
}

// NewDefaultRouter sends Gemini model ids to the GenAI SDK when geminiKey is
// set and everything else through the OpenAI-compatible gateway
func NewDefaultRouter(ctx context.Context, gatewayURL, gatewayKey, geminiKey string) (*Router, error) {
	var fallback Completer
	if gatewayKey != "" {
		fallback = NewGateway(gatewayURL, gatewayKey)
	}
	router := NewRouter(fallback)

	if geminiKey != "" {
		gemini, err := NewGemini(ctx, geminiKey)
		if err != nil {
			return nil, err
		}
		router.Route("gemini", gemini)
	}
	return router, nil
}
