package packagetypes

import (
	"encoding/json"
	"fmt"
)

// Well-known file names inside a package revision.
const (
	PackageJSONFile      = "package.json"
	ConfigJSONFile       = "config.json"
	CommandJSONFile      = "command.json"
	MarathonTemplateFile = "marathon.json.mustache"
)

// Files is an in-memory representation of a package revision directory.
// It maps slash separated file paths to their contents.
type Files map[string][]byte

// Returns a deep copy of the files map.
func (f Files) DeepCopy() Files {
	newF := Files{}
	for k, v := range f {
		newV := make([]byte, len(v))
		copy(newV, v)
		newF[k] = newV
	}
	return newF
}

// PackageJSON is the decoded package.json descriptor.
// Unknown keys are kept so the descriptor can be emitted unchanged.
type PackageJSON map[string]any

func (p PackageJSON) Name() string    { return p.str("name") }
func (p PackageJSON) Version() string { return p.str("version") }

func (p PackageJSON) Description() string      { return p.str("description") }
func (p PackageJSON) PreInstallNotes() string  { return p.str("preInstallNotes") }
func (p PackageJSON) PostInstallNotes() string { return p.str("postInstallNotes") }

func (p PackageJSON) Framework() bool {
	b, _ := p["framework"].(bool)
	return b
}

func (p PackageJSON) Tags() []string {
	raw, _ := p["tags"].([]any)
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// DeepCopy returns a copy that shares no nested maps or slices with p.
func (p PackageJSON) DeepCopy() PackageJSON {
	return PackageJSON(DeepCopyMap(p))
}

func (p PackageJSON) str(key string) string {
	s, _ := p[key].(string)
	return s
}

// DeepCopyMap copies a decoded JSON object recursively.
func DeepCopyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = DeepCopyValue(v)
	}
	return out
}

// DeepCopyValue copies a decoded JSON value recursively.
func DeepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return DeepCopyMap(t)
	case PackageJSON:
		return DeepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = DeepCopyValue(t[i])
		}
		return out
	default:
		return v
	}
}

// Revision is an immutable snapshot of one version of one package.
// It is created by a registry and never mutated afterwards,
// accessors hand out copies.
type Revision struct {
	name            string
	version         string
	release         string
	source          string
	registryVersion string
	files           Files
}

// RevisionInfo carries the metadata a registry knows about a revision.
type RevisionInfo struct {
	// Name of the package.
	Name string
	// Version as declared in package.json.
	Version string
	// Release is the revision index inside the registry.
	Release string
	// Source is the URL of the package source the revision was read from.
	Source string
	// RegistryVersion is the version of the registry index.
	RegistryVersion string
}

// NewRevision creates a Revision taking a private copy of files.
func NewRevision(info RevisionInfo, files Files) *Revision {
	return &Revision{
		name:            info.Name,
		version:         info.Version,
		release:         info.Release,
		source:          info.Source,
		registryVersion: info.RegistryVersion,
		files:           files.DeepCopy(),
	}
}

func (r *Revision) Name() string            { return r.name }
func (r *Revision) Version() string         { return r.version }
func (r *Revision) Release() string         { return r.release }
func (r *Revision) Source() string          { return r.source }
func (r *Revision) RegistryVersion() string { return r.registryVersion }

// File returns a copy of the named file.
func (r *Revision) File(name string) ([]byte, bool) {
	data, ok := r.files[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// PackageJSON decodes package.json of this revision.
func (r *Revision) PackageJSON() (PackageJSON, error) {
	data, ok := r.files[PackageJSONFile]
	if !ok {
		return nil, fmt.Errorf("%s missing for package [%s]", PackageJSONFile, r.name)
	}
	pj := PackageJSON{}
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("decoding %s of package [%s]: %w", PackageJSONFile, r.name, err)
	}
	return pj, nil
}

// ConfigSchema decodes config.json. It returns nil when the revision has no config.json.
func (r *Revision) ConfigSchema() (map[string]any, error) {
	data, ok := r.files[ConfigJSONFile]
	if !ok {
		return nil, nil
	}
	schema := map[string]any{}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decoding %s of package [%s]: %w", ConfigJSONFile, r.name, err)
	}
	return schema, nil
}

// CommandTemplate returns the raw command.json template.
func (r *Revision) CommandTemplate() (string, bool) {
	data, ok := r.files[CommandJSONFile]
	return string(data), ok
}

// MarathonTemplate returns the raw marathon.json.mustache template.
func (r *Revision) MarathonTemplate() (string, bool) {
	data, ok := r.files[MarathonTemplateFile]
	return string(data), ok
}

func (r *Revision) HasCommandDefinition() bool {
	_, ok := r.files[CommandJSONFile]
	return ok
}

func (r *Revision) HasMarathonDefinition() bool {
	_, ok := r.files[MarathonTemplateFile]
	return ok
}
