// Package router wraps chi with named routes and middleware groups.
package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

type Router struct {
	mux    chi.Router
	routes map[string]string
	mu     sync.RWMutex
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

func New() *Router {
	return &Router{
		mux:    chi.NewRouter(),
		routes: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// Use appends global middleware. Call before mounting routes.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// HandleFunc mounts a bare handler on all methods (used for /metrics, /ws).
func (r *Router) HandleFunc(path string, h http.HandlerFunc) {
	r.mux.HandleFunc(normalizePath(path), h)
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodGet, path, name, handler, mw...)
}

func (r *Router) Post(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPost, path, name, handler, mw...)
}

func (r *Router) Put(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPut, path, name, handler, mw...)
}

func (r *Router) Patch(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodPatch, path, name, handler, mw...)
}

func (r *Router) Delete(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	r.mount(http.MethodDelete, path, name, handler, mw...)
}

// Path returns the registered path for a route name.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.routes[name]
	return path, ok
}

// URL builds a URL for a named route, substituting {param} placeholders.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Names returns all registered route names sorted, with their paths.
// Used by the route:list CLI command.
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.routes))
	for name, path := range r.routes {
		out = append(out, name+" → "+path)
	}
	sort.Strings(out)
	return out
}

func (r *Router) mount(method, path, name string, handler http.HandlerFunc, mw ...Middleware) {
	fullPath := normalizePath(path)
	r.mux.Method(method, fullPath, chain(handler, mw...))

	if name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[name] = fullPath
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: combined,
	}
}

func (g *Group) Get(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodGet, path, name, handler, mw...)
}

func (g *Group) Post(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPost, path, name, handler, mw...)
}

func (g *Group) Put(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPut, path, name, handler, mw...)
}

func (g *Group) Patch(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodPatch, path, name, handler, mw...)
}

func (g *Group) Delete(path, name string, handler http.HandlerFunc, mw ...Middleware) {
	g.mount(http.MethodDelete, path, name, handler, mw...)
}

func (g *Group) mount(method, path, name string, handler http.HandlerFunc, mw ...Middleware) {
	fullPath := joinPath(g.prefix, path)
	combined := append(append([]Middleware(nil), g.middlewares...), mw...)

	g.router.mux.Method(method, fullPath, chain(handler, combined...))

	if name == "" {
		return
	}

	g.router.mu.Lock()
	defer g.router.mu.Unlock()
	g.router.routes[name] = fullPath
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.Trim(part, "/"); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}

// Param reads a chi URL parameter from the request.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
