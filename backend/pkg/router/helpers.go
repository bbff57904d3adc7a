package router

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// validateRouteSpec validates a RouteSpec.
func validateRouteSpec(spec RouteSpec) error {
	if spec.OperationID == "" {
		return errors.New("field OperationID required")
	}

	if spec.Summary == "" {
		return errors.New("field Summary required")
	}

	if spec.Description == "" {
		return errors.New("field Description required")
	}

	if spec.Group == "" {
		return errors.New("field Group required")
	}

	if spec.Handler == nil {
		return errors.New("field Handler required")
	}

	if len(spec.Responses) == 0 {
		return errors.New("field Responses required")
	}

	return nil
}

// joinPath joins a route prefix and a sub path, collapsing duplicate slashes
// and dropping a trailing one.
func joinPath(prefix, path string) string {
	p := prefix + "/" + path
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}

	return p
}

// extractParamNames returns the {name} parameters of a path. Regex matchers
// ({id:[0-9]+}) are stripped.
func extractParamNames(path string) ([]string, error) {
	if strings.Count(path, "{") != strings.Count(path, "}") {
		return nil, errors.New("mismatched number of '{' and '}' in path")
	}

	var names []string

	start := -1

	for i, ch := range path {
		switch {
		case ch == '{':
			start = i + 1
		case ch == '}' && start >= 0:
			name, _, _ := strings.Cut(path[start:i], ":")
			names = append(names, name)
			start = -1
		}
	}

	return names, nil
}

func isValidParameterName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !isLetter {
			return false
		}

		if !isLetter && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

// validateParameters checks that every path parameter is documented and
// required, and that every documented parameter is well formed.
func validateParameters(spec RouteSpec) error {
	paramsInPath := map[string]struct{}{}
	documentedPathParams := map[string]struct{}{}

	names, err := extractParamNames(spec.fullPath)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", spec.fullPath, err)
	}

	for _, name := range names {
		if !isValidParameterName(name) {
			return fmt.Errorf("invalid parameter name %s in path %s", name, spec.fullPath)
		}

		paramsInPath[name] = struct{}{}
	}

	validInValues := []ParameterIn{ParameterInPath, ParameterInQuery, ParameterInHeader}

	for name, paramSpec := range spec.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name required for %s %s", spec.method, spec.fullPath)
		}

		if paramSpec.Description == "" {
			return fmt.Errorf("parameter Description required for %s %s", spec.method, spec.fullPath)
		}

		if paramSpec.Type == nil {
			return fmt.Errorf("parameter Type required for %s %s", spec.method, spec.fullPath)
		}

		if !slices.Contains(validInValues, paramSpec.In) {
			return fmt.Errorf("parameter In must be one of %v for %s %s", validInValues, spec.method, spec.fullPath)
		}

		if paramSpec.In != ParameterInPath {
			continue
		}

		if _, exists := paramsInPath[name]; !exists {
			return fmt.Errorf("documented path parameter %s not found in path", name)
		}

		if !paramSpec.Required {
			return fmt.Errorf("path parameter %s must be required", name)
		}

		documentedPathParams[name] = struct{}{}
	}

	for name := range paramsInPath {
		if _, exists := documentedPathParams[name]; !exists {
			return fmt.Errorf("path parameter %s not documented", name)
		}
	}

	return nil
}
