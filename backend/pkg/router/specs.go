package router

import "net/http"

// ParameterIn is where a parameter is carried in the request.
type ParameterIn string

const (
	ParameterInPath   ParameterIn = "path"
	ParameterInQuery  ParameterIn = "query"
	ParameterInHeader ParameterIn = "header"
)

// ParameterSpec documents a request parameter.
type ParameterSpec struct {
	In          ParameterIn
	Description string
	Required    bool
	Type        any // Go value the schema is derived from, e.g. new(string)
}

// ResponseSpec documents one response status of a route.
type ResponseSpec struct {
	Description string
	Type        any
	Examples    map[string]any
}

// RouteSpec describes an HTTP route and its documentation.
type RouteSpec struct {
	OperationID string
	Summary     string
	Description string
	Group       string
	Deprecated  string
	RequestType any
	Parameters  map[string]ParameterSpec
	Responses   map[int]ResponseSpec
	Handler     http.HandlerFunc

	method   string
	fullPath string
}

// APIInfo is the top-level information of the generated document.
type APIInfo struct {
	Title       string
	Version     string
	Description string
}
