package packagedeploy

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/dcos/dcos-package/internal/packages/packagerender"
	"github.com/dcos/dcos-package/internal/packages/packagetypes"
)

// Labels attached to every app launched from a package.
const (
	LabelMetadata        = "DCOS_PACKAGE_METADATA"
	LabelRegistryVersion = "DCOS_PACKAGE_REGISTRY_VERSION"
	LabelName            = "DCOS_PACKAGE_NAME"
	LabelVersion         = "DCOS_PACKAGE_VERSION"
	LabelSource          = "DCOS_PACKAGE_SOURCE"
	LabelRelease         = "DCOS_PACKAGE_RELEASE"
	LabelIsFramework     = "DCOS_PACKAGE_IS_FRAMEWORK"
	LabelCommand         = "DCOS_PACKAGE_COMMAND"
)

// AppLabels returns the package labels of an app launched from rev.
func AppLabels(rev *packagetypes.Revision, opts packagerender.OptionSet) (map[string]string, error) {
	pj, err := rev.PackageJSON()
	if err != nil {
		return nil, err
	}
	metadata, err := encodeJSON(pj)
	if err != nil {
		return nil, err
	}

	labels := map[string]string{
		LabelMetadata:        metadata,
		LabelRegistryVersion: rev.RegistryVersion(),
		LabelName:            rev.Name(),
		LabelVersion:         rev.Version(),
		LabelSource:          rev.Source(),
		LabelRelease:         rev.Release(),
		LabelIsFramework:     strconv.FormatBool(pj.Framework()),
	}

	if rev.HasCommandDefinition() {
		command, err := packagerender.CommandJSON(rev, opts)
		if err != nil {
			return nil, err
		}
		if labels[LabelCommand], err = encodeJSON(command); err != nil {
			return nil, err
		}
	}
	return labels, nil
}

// AppDefinition renders the app definition of rev with package labels merged
// over the labels of the template. A non-empty appID replaces the rendered id.
func AppDefinition(rev *packagetypes.Revision, opts packagerender.OptionSet, appID string) (map[string]any, error) {
	app, err := packagerender.MarathonJSON(rev, opts)
	if err != nil {
		return nil, err
	}
	pkgLabels, err := AppLabels(rev, opts)
	if err != nil {
		return nil, err
	}

	labels := map[string]any{}
	if existing, ok := app["labels"].(map[string]any); ok {
		maps.Copy(labels, existing)
	}
	for k, v := range pkgLabels {
		labels[k] = v
	}
	app["labels"] = labels

	if appID != "" {
		app["id"] = appID
	}
	return app, nil
}

// NormalizeAppID returns id with exactly one leading slash and no trailing slash.
func NormalizeAppID(id string) string {
	return "/" + strings.Trim(id, "/")
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func decodePackageJSON(encoded string) (packagetypes.PackageJSON, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %s label: %w", LabelMetadata, err)
	}
	pj := packagetypes.PackageJSON{}
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("decode %s label: %w", LabelMetadata, err)
	}
	return pj, nil
}
