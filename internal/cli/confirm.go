package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

// NewConfirmer returns a Confirmer asking on the configured streams.
func NewConfirmer(opts ...ConfirmerOption) *Confirmer {
	var cfg ConfirmerConfig

	cfg.Option(opts...)
	cfg.Default()

	return &Confirmer{
		cfg:    cfg,
		reader: bufio.NewReader(cfg.In),
	}
}

// Confirmer asks the operator yes/no questions.
// Terminals get an interactive prompt, any other input is read line by line.
type Confirmer struct {
	cfg    ConfirmerConfig
	reader *bufio.Reader
}

// Confirm asks prompt until a valid answer is given.
// Reaching the end of the input counts as no.
func (c *Confirmer) Confirm(prompt string) (bool, error) {
	if in, out, ok := c.terminal(); ok {
		var result bool
		err := survey.AskOne(
			&survey.Confirm{Message: prompt},
			&result,
			survey.WithStdio(in, out, out),
		)
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return result, err
	}

	for {
		if _, err := fmt.Fprintf(c.cfg.Out, "%s [yes/no] ", prompt); err != nil {
			return false, err
		}

		line, err := c.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("reading answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))

		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}

		if _, err := fmt.Fprintf(c.cfg.Out, "'%s' is not a valid response.\n", answer); err != nil {
			return false, err
		}
	}
}

func (c *Confirmer) terminal() (*os.File, *os.File, bool) {
	in, ok := c.cfg.In.(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return nil, nil, false
	}
	out, ok := c.cfg.Out.(*os.File)
	if !ok || !term.IsTerminal(int(out.Fd())) {
		return nil, nil, false
	}
	return in, out, true
}

type ConfirmerConfig struct {
	In  io.Reader
	Out io.Writer
}

func (c *ConfirmerConfig) Option(opts ...ConfirmerOption) {
	for _, opt := range opts {
		opt.ConfigureConfirmer(c)
	}
}

func (c *ConfirmerConfig) Default() {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
}

type ConfirmerOption interface {
	ConfigureConfirmer(*ConfirmerConfig)
}
