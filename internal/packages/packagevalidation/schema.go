package packagevalidation

import (
	"encoding/json"
	"fmt"
	"sort"

	"k8s.io/kube-openapi/pkg/validation/spec"
	"k8s.io/kube-openapi/pkg/validation/strfmt"
	kopenapivalidation "k8s.io/kube-openapi/pkg/validation/validate"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// Schema is a parsed JSON schema document.
type Schema struct {
	schema *spec.Schema
}

// ParseSchema parses a JSON schema document.
func ParseSchema(data []byte) (*Schema, error) {
	s := &spec.Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing JSON schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// SchemaFromMap parses a JSON schema that has already been decoded into a map.
func SchemaFromMap(m map[string]any) (*Schema, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON schema: %w", err)
	}
	return ParseSchema(data)
}

// Violations validates doc and returns every violated constraint, sorted.
// An empty result means doc is valid.
func (s *Schema) Violations(doc any) []string {
	v := kopenapivalidation.NewSchemaValidator(s.schema, nil, "", strfmt.Default)
	res := v.Validate(doc)
	if res == nil || len(res.Errors) == 0 {
		return nil
	}

	out := make([]string, 0, len(res.Errors))
	for _, err := range res.Errors {
		out = append(out, err.Error())
	}
	sort.Strings(out)
	return out
}

// Validate wraps all violations of doc into a *packagetypes.ValidationError.
func (s *Schema) Validate(path string, doc any) error {
	if violations := s.Violations(doc); len(violations) > 0 {
		return &packagetypes.ValidationError{Path: path, Violations: violations}
	}
	return nil
}
