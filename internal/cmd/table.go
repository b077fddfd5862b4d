package cmd

import (
	"strings"

	"github.com/dcos/dcos-package/internal/packages/packagedeploy"
	"github.com/dcos/dcos-package/internal/packages/packagerepository"
)

// Table provides a generic table interface
// for Printers to consume table data from.
type Table interface {
	// Headers returns the table's headers if any.
	Headers() []string
	// Rows returns a 2-dimensional slice of Fields
	// representing the Table data.
	Rows() [][]Field
}

// NewDefaultTable returns a Table which only selects the Fields
// of a row whose names match the configured Headers.
// Without Headers every field is part of the table.
func NewDefaultTable(opts ...TableOption) *DefaultTable {
	var cfg TableConfig

	cfg.Option(opts...)

	return &DefaultTable{
		cfg: cfg,
	}
}

type DefaultTable struct {
	cfg  TableConfig
	rows []row
}

func (t *DefaultTable) Headers() []string {
	return t.cfg.Headers
}

func (t *DefaultTable) AddRow(fields ...Field) {
	t.rows = append(t.rows, row(fields))
}

func (t *DefaultTable) Rows() [][]Field {
	res := make([][]Field, 0, len(t.rows))

	for _, r := range t.rows {
		if len(t.cfg.Headers) == 0 {
			res = append(res, []Field(r))
			continue
		}

		selected := r.SelectFields(t.cfg.Headers...)
		if len(selected) == 0 {
			continue
		}

		res = append(res, selected)
	}

	return res
}

type TableConfig struct {
	Headers []string
}

func (c *TableConfig) Option(opts ...TableOption) {
	for _, opt := range opts {
		opt.ConfigureTable(c)
	}
}

type TableOption interface {
	ConfigureTable(*TableConfig)
}

type row []Field

func (r row) SelectFields(names ...string) []Field {
	var res []Field

	for _, n := range names {
		if f, ok := r.GetField(n); ok {
			res = append(res, f)
		}
	}

	return res
}

func (r row) GetField(name string) (Field, bool) {
	for _, f := range r {
		if normalize(f.Name) == normalize(name) {
			return f, true
		}
	}

	return Field{}, false
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "_"))
}

type Field struct {
	Name  string
	Value any
}

// Placeholder for cells without a value.
const emptyCell = "---"

// InstalledPackagesTable lists installed packages with their apps and commands.
func InstalledPackagesTable(pkgs []packagedeploy.InstalledPackage) *DefaultTable {
	t := NewDefaultTable(WithHeaders{"NAME", "VERSION", "APP", "COMMAND", "DESCRIPTION"})

	for _, p := range pkgs {
		app := emptyCell
		if len(p.Apps) > 0 {
			app = strings.Join(p.Apps, "\n")
		}
		command := emptyCell
		if p.Command != nil {
			command = p.Command.Name
		}

		t.AddRow(
			Field{Name: "NAME", Value: p.Name()},
			Field{Name: "VERSION", Value: p.Version()},
			Field{Name: "APP", Value: app},
			Field{Name: "COMMAND", Value: command},
			Field{Name: "DESCRIPTION", Value: p.Description()},
		)
	}

	return t
}

// SearchResultsTable lists the matches of all sources.
func SearchResultsTable(results []packagerepository.SearchResult) *DefaultTable {
	t := NewDefaultTable(WithHeaders{"NAME", "VERSION", "FRAMEWORK", "SOURCE", "DESCRIPTION"})

	for _, r := range results {
		for _, p := range r.Packages {
			framework := "False"
			if p.Framework {
				framework = "True"
			}

			t.AddRow(
				Field{Name: "NAME", Value: p.Name},
				Field{Name: "VERSION", Value: p.CurrentVersion},
				Field{Name: "FRAMEWORK", Value: framework},
				Field{Name: "SOURCE", Value: r.Source},
				Field{Name: "DESCRIPTION", Value: p.Description},
			)
		}
	}

	return t
}
