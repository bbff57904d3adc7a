package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"sensor-dashboard/backend/pkg/utils"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// RouteBuilder registers chi routes and records each one in an OpenAPI
// document. Sub-builders created by Route share the document.
type RouteBuilder struct {
	l      *slog.Logger
	router chi.Router
	root   chi.Router
	prefix string
	docs   *openAPIDoc
}

// NewRouteBuilder creates a builder with a fresh chi router.
func NewRouteBuilder(l *slog.Logger, info APIInfo) (*RouteBuilder, error) {
	if info.Title == "" || info.Version == "" {
		return nil, errors.New("API title and version are required")
	}

	r := chi.NewRouter()

	return &RouteBuilder{
		l:      l.With(slog.String("component", "route-builder")),
		router: r,
		root:   r,
		docs:   newOpenAPIDoc(info),
	}, nil
}

// Router returns the root chi router for serving.
func (rb *RouteBuilder) Router() chi.Router {
	return rb.root
}

// Spec returns the OpenAPI document built so far.
func (rb *RouteBuilder) Spec() *openapi3.T {
	return rb.docs.doc
}

// SpecYAML serializes the OpenAPI document.
func (rb *RouteBuilder) SpecYAML() ([]byte, error) {
	return rb.docs.yaml()
}

// Use appends middlewares to the current router.
func (rb *RouteBuilder) Use(middlewares ...func(http.Handler) http.Handler) {
	rb.router.Use(middlewares...)
}

// Route mounts a sub-router at pattern.
func (rb *RouteBuilder) Route(pattern string, fn func(rb *RouteBuilder)) {
	rb.router.Route(pattern, func(r chi.Router) {
		fn(&RouteBuilder{
			l:      rb.l,
			router: r,
			root:   rb.root,
			prefix: joinPath(rb.prefix, pattern),
			docs:   rb.docs,
		})
	})
}

func (rb *RouteBuilder) Get(path string, spec RouteSpec) error {
	return rb.register(http.MethodGet, path, spec)
}

func (rb *RouteBuilder) Post(path string, spec RouteSpec) error {
	return rb.register(http.MethodPost, path, spec)
}

func (rb *RouteBuilder) Put(path string, spec RouteSpec) error {
	return rb.register(http.MethodPut, path, spec)
}

func (rb *RouteBuilder) Delete(path string, spec RouteSpec) error {
	return rb.register(http.MethodDelete, path, spec)
}

func (rb *RouteBuilder) MustGet(path string, spec RouteSpec) {
	rb.must(http.MethodGet, path, spec)
}

func (rb *RouteBuilder) MustPost(path string, spec RouteSpec) {
	rb.must(http.MethodPost, path, spec)
}

func (rb *RouteBuilder) MustPut(path string, spec RouteSpec) {
	rb.must(http.MethodPut, path, spec)
}

func (rb *RouteBuilder) MustDelete(path string, spec RouteSpec) {
	rb.must(http.MethodDelete, path, spec)
}

func (rb *RouteBuilder) must(method, path string, spec RouteSpec) {
	if err := rb.register(method, path, spec); err != nil {
		rb.l.Error("Failed to register route", slog.String("method", method), slog.String("path", path), slog.String("operationID", spec.OperationID), utils.ErrAttr(err))
		os.Exit(1)
	}
}

func (rb *RouteBuilder) register(method, path string, spec RouteSpec) error {
	spec.method = method
	spec.fullPath = joinPath(rb.prefix, path)

	if err := validateRouteSpec(spec); err != nil {
		return fmt.Errorf("invalid route spec for %s %s: %w", method, spec.fullPath, err)
	}

	if err := validateParameters(spec); err != nil {
		return fmt.Errorf("invalid parameters for %s %s: %w", method, spec.fullPath, err)
	}

	if err := rb.docs.addOperation(spec); err != nil {
		return fmt.Errorf("failed to document %s %s: %w", method, spec.fullPath, err)
	}

	rb.router.Method(method, joinPath("/", path), spec.Handler)

	rb.l.Debug("Registered route", slog.String("method", method), slog.String("path", spec.fullPath), slog.String("operationID", spec.OperationID))

	return nil
}
