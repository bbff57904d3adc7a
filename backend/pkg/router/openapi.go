package router

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/oasdiff/yaml"
)

const jsonContentType = "application/json"

type openAPIDoc struct {
	mu           sync.Mutex
	doc          *openapi3.T
	operationIDs map[string]struct{}
}

func newOpenAPIDoc(info APIInfo) *openAPIDoc {
	return &openAPIDoc{
		doc: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:       info.Title,
				Version:     info.Version,
				Description: info.Description,
			},
			Paths: openapi3.NewPaths(),
			Components: &openapi3.Components{
				Schemas: openapi3.Schemas{},
			},
		},
		operationIDs: make(map[string]struct{}),
	}
}

func (d *openAPIDoc) schemaFor(v any) (*openapi3.SchemaRef, error) {
	return openapi3gen.NewSchemaRefForValue(v, d.doc.Components.Schemas)
}

func (d *openAPIDoc) addOperation(spec RouteSpec) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.operationIDs[spec.OperationID]; exists {
		return fmt.Errorf("duplicate operationID: %s", spec.OperationID)
	}

	op := openapi3.NewOperation()
	op.OperationID = spec.OperationID
	op.Summary = spec.Summary
	op.Description = spec.Description
	op.Tags = []string{spec.Group}

	if spec.Deprecated != "" {
		op.Deprecated = true
		op.Description += "\n\nDeprecated: " + spec.Deprecated
	}

	// Sorted so the document is stable across runs.
	names := make([]string, 0, len(spec.Parameters))
	for name := range spec.Parameters {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		p := spec.Parameters[name]

		schema, err := d.schemaFor(p.Type)
		if err != nil {
			return fmt.Errorf("schema for parameter %s: %w", name, err)
		}

		var param *openapi3.Parameter

		switch p.In {
		case ParameterInPath:
			param = openapi3.NewPathParameter(name)
		case ParameterInQuery:
			param = openapi3.NewQueryParameter(name)
		case ParameterInHeader:
			param = openapi3.NewHeaderParameter(name)
		}

		param = param.WithDescription(p.Description).WithRequired(p.Required)
		param.Schema = schema
		op.AddParameter(param)
	}

	if spec.RequestType != nil {
		schema, err := d.schemaFor(spec.RequestType)
		if err != nil {
			return fmt.Errorf("schema for request body: %w", err)
		}

		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema),
		}
	}

	codes := make([]int, 0, len(spec.Responses))
	for code := range spec.Responses {
		codes = append(codes, code)
	}

	slices.Sort(codes)

	op.Responses = openapi3.NewResponsesWithCapacity(len(codes))

	for _, code := range codes {
		r := spec.Responses[code]

		resp := openapi3.NewResponse().WithDescription(r.Description)

		if r.Type != nil {
			schema, err := d.schemaFor(r.Type)
			if err != nil {
				return fmt.Errorf("schema for response %d: %w", code, err)
			}

			resp = resp.WithJSONSchemaRef(schema)

			if len(r.Examples) > 0 {
				examples := openapi3.Examples{}
				for name, v := range r.Examples {
					examples[name] = &openapi3.ExampleRef{Value: openapi3.NewExample(v)}
				}

				resp.Content[jsonContentType].Examples = examples
			}
		}

		op.Responses.Set(strconv.Itoa(code), &openapi3.ResponseRef{Value: resp})
	}

	d.doc.AddOperation(spec.fullPath, spec.method, op)
	d.operationIDs[spec.OperationID] = struct{}{}

	if d.doc.Tags.Get(spec.Group) == nil {
		d.doc.Tags = append(d.doc.Tags, &openapi3.Tag{Name: spec.Group})
	}

	return nil
}

func (d *openAPIDoc) yaml() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out, err := yaml.Marshal(d.doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAPI document: %w", err)
	}

	return out, nil
}
