package packagerender

import (
	"fmt"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
	"github.com/dcos/dcos-package/internal/packages/packagevalidation"
)

// OptionSet is the merged and validated set of configuration values
// a revision's templates are rendered with.
type OptionSet map[string]any

// Defaults extracts the default values declared by a config schema.
// Object properties without an own default contribute the defaults of
// their nested properties.
func Defaults(schema map[string]any) map[string]any {
	defaults := map[string]any{}

	props, _ := schema["properties"].(map[string]any)
	for key, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if def, ok := prop["default"]; ok {
			defaults[key] = packagetypes.DeepCopyValue(def)
			continue
		}

		if t, _ := prop["type"].(string); t == "object" {
			if nested := Defaults(prop); len(nested) > 0 {
				defaults[key] = nested
			}
		}
	}
	return defaults
}

// Merge returns a new map with overrides laid over base.
// Nested objects present on both sides are merged recursively,
// any other override value replaces the base value.
// Neither argument is modified and the result shares no nested values with them.
func Merge(base, overrides map[string]any) map[string]any {
	out := packagetypes.DeepCopyMap(base)
	if out == nil {
		out = map[string]any{}
	}

	for key, ov := range overrides {
		ovMap, ovIsMap := ov.(map[string]any)
		bvMap, bvIsMap := out[key].(map[string]any)
		if ovIsMap && bvIsMap {
			out[key] = Merge(bvMap, ovMap)
			continue
		}
		out[key] = packagetypes.DeepCopyValue(ov)
	}
	return out
}

// Options builds the option set for a revision: schema defaults
// with userOptions merged on top, validated against config.json.
// Revisions without config.json render with the user options as given.
func Options(rev *packagetypes.Revision, userOptions map[string]any) (OptionSet, error) {
	schemaDoc, err := rev.ConfigSchema()
	if err != nil {
		return nil, err
	}
	if schemaDoc == nil {
		return OptionSet(Merge(nil, userOptions)), nil
	}

	merged := Merge(Defaults(schemaDoc), userOptions)

	schema, err := packagevalidation.SchemaFromMap(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("loading %s of package [%s]: %w", packagetypes.ConfigJSONFile, rev.Name(), err)
	}
	if violations := schema.Violations(merged); len(violations) > 0 {
		return nil, &packagetypes.ValidationError{
			Subject:    fmt.Sprintf("options of package [%s]", rev.Name()),
			Violations: violations,
		}
	}
	return OptionSet(merged), nil
}
