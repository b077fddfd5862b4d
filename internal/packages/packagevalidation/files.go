package packagevalidation

import (
	"embed"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"path"

	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// IsSchemaCheckedFile reports whether the file name has a fixed schema.
func IsSchemaCheckedFile(name string) bool {
	switch name {
	case packagetypes.PackageJSONFile, packagetypes.ConfigJSONFile, packagetypes.CommandJSONFile:
		return true
	}
	return false
}

// FileSchema returns the fixed schema of package.json, config.json or command.json.
func FileSchema(name string) (*Schema, error) {
	if !IsSchemaCheckedFile(name) {
		return nil, fmt.Errorf("no schema for file %q", name)
	}
	data, err := schemaFS.ReadFile(path.Join("schemas", name))
	if err != nil {
		return nil, err
	}
	return ParseSchema(data)
}

// ValidateFile decodes a package descriptor file and validates it against its fixed schema.
// displayPath is only used for error messages.
func ValidateFile(name, displayPath string, data []byte) (map[string]any, error) {
	schema, err := FileSchema(name)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &packagetypes.ValidationError{
			Path:       displayPath,
			Violations: []string{fmt.Sprintf("invalid JSON: %v", err)},
		}
	}

	if err := schema.Validate(displayPath, doc); err != nil {
		return nil, err
	}

	if name == packagetypes.ConfigJSONFile {
		// config.json is itself a schema and must be usable as one.
		if _, err := SchemaFromMap(doc); err != nil {
			return nil, &packagetypes.ValidationError{Path: displayPath, Violations: []string{err.Error()}}
		}
	}
	return doc, nil
}

// ValidateFiles validates every schema-checked file present in files
// and aggregates all errors.
func ValidateFiles(prefix string, files packagetypes.Files) []error {
	var errs []error
	for _, name := range []string{
		packagetypes.PackageJSONFile, packagetypes.ConfigJSONFile, packagetypes.CommandJSONFile,
	} {
		data, ok := files[name]
		if !ok {
			continue
		}
		if _, err := ValidateFile(name, path.Join(prefix, name), data); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ValidatePNG checks that r contains a well-formed PNG image.
func ValidatePNG(r io.Reader) error {
	if _, err := png.Decode(r); err != nil {
		return fmt.Errorf("not a valid PNG image: %w", err)
	}
	return nil
}
