package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/dcos/dcos-package/internal/cmd"
)

func init() {
	pterm.DisableColor()
}

// NewPrinter returns a Printer writing command output to Out
// and messages meant for the operator only to Err.
func NewPrinter(opts ...PrinterOption) *Printer {
	var cfg PrinterConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Printer{cfg: cfg}
}

type Printer struct {
	cfg PrinterConfig
}

func (p *Printer) PrintfOut(format string, args ...any) error {
	return fprintf(p.cfg.Out, "out", format, args...)
}

func (p *Printer) PrintfErr(format string, args ...any) error {
	return fprintf(p.cfg.Err, "err", format, args...)
}

func fprintf(w io.Writer, stream, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("printing to %s stream: %w", stream, err)
	}
	return nil
}

// PrintJSON writes v as indented JSON followed by a newline.
// HTML characters are not escaped.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.cfg.Out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("printing json: %w", err)
	}
	return nil
}

// PrintTable renders t with two spaces between columns.
func (p *Printer) PrintTable(t cmd.Table) error {
	data, hasHeader := tableData(t)

	table := pterm.DefaultTable.WithData(data).WithSeparator("  ").WithHasHeader(hasHeader)
	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	return p.PrintfOut("%s\n", rendered)
}

func tableData(t cmd.Table) (pterm.TableData, bool) {
	headers := t.Headers()
	rows := t.Rows()

	data := make(pterm.TableData, 0, len(rows)+1)
	if len(headers) > 0 {
		data = append(data, headers)
	}
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, f := range r {
			cells[i] = fmt.Sprint(f.Value)
		}
		data = append(data, cells)
	}
	return data, len(headers) > 0
}

type PrinterConfig struct {
	Out io.Writer
	Err io.Writer
}

func (c *PrinterConfig) Option(opts ...PrinterOption) {
	for _, opt := range opts {
		opt.ConfigurePrinter(c)
	}
}

func (c *PrinterConfig) Default() {
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Err == nil {
		c.Err = os.Stderr
	}
}

type PrinterOption interface {
	ConfigurePrinter(*PrinterConfig)
}
