package packagerender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cbroglie/mustache"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// Render expands a mustache template with the given options.
// Values are substituted verbatim, lists and objects are written as JSON.
func Render(tmpl string, opts OptionSet) (string, error) {
	out, err := mustache.RenderRaw(tmpl, true, templateValue(map[string]any(opts)))
	if err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return out, nil
}

// jsonObject and jsonList keep their map and slice kinds,
// so dotted lookups and sections still work on them.
type (
	jsonObject map[string]any
	jsonList   []any
)

func (o jsonObject) String() string { return marshalText(map[string]any(o)) }
func (l jsonList) String() string   { return marshalText([]any(l)) }

func templateValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(jsonObject, len(v))
		for k, e := range v {
			out[k] = templateValue(e)
		}
		return out
	case []any:
		out := make(jsonList, 0, len(v))
		for _, e := range v {
			out = append(out, templateValue(e))
		}
		return out
	default:
		return v
	}
}

func marshalText(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// RenderJSON expands a mustache template and decodes the result as a JSON object.
// name identifies the template in error messages.
func RenderJSON(name, tmpl string, opts OptionSet) (map[string]any, error) {
	out, err := Render(tmpl, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	doc := map[string]any{}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		return nil, fmt.Errorf("rendered %s is not a valid JSON object: %w", name, err)
	}
	return doc, nil
}

// MissingTemplateError is returned when a revision declares no template for a target.
type MissingTemplateError struct {
	Package string
	File    string
}

func (e *MissingTemplateError) Error() string {
	return fmt.Sprintf("package [%s] has no %s", e.Package, e.File)
}

// MarathonJSON renders the Marathon app definition of a revision.
func MarathonJSON(rev *packagetypes.Revision, opts OptionSet) (map[string]any, error) {
	tmpl, ok := rev.MarathonTemplate()
	if !ok {
		return nil, &MissingTemplateError{Package: rev.Name(), File: packagetypes.MarathonTemplateFile}
	}
	return RenderJSON(packagetypes.MarathonTemplateFile, tmpl, opts)
}

// CommandJSON renders the command definition of a revision.
func CommandJSON(rev *packagetypes.Revision, opts OptionSet) (map[string]any, error) {
	tmpl, ok := rev.CommandTemplate()
	if !ok {
		return nil, &MissingTemplateError{Package: rev.Name(), File: packagetypes.CommandJSONFile}
	}
	return RenderJSON(packagetypes.CommandJSONFile, tmpl, opts)
}

// Raw returns a template for display with exactly one trailing newline removed.
func Raw(tmpl string) string {
	return strings.TrimSuffix(tmpl, "\n")
}
