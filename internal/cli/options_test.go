package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterOptions(t *testing.T) {
	t.Parallel()

	var outBuf, errBuf bytes.Buffer
	config := &PrinterConfig{}

	config.Option(WithOut{Out: &outBuf}, WithErr{Err: &errBuf})

	assert.Same(t, &outBuf, config.Out)
	assert.Same(t, &errBuf, config.Err)
}

func TestConfirmerOptions(t *testing.T) {
	t.Parallel()

	in := strings.NewReader("yes\n")
	var out bytes.Buffer
	config := &ConfirmerConfig{}

	config.Option(WithIn{In: in}, WithOut{Out: &out})

	assert.Same(t, in, config.In)
	assert.Same(t, &out, config.Out)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	pc := &PrinterConfig{}
	pc.Default()
	assert.NotNil(t, pc.Out)
	assert.NotNil(t, pc.Err)

	cc := &ConfirmerConfig{}
	cc.Default()
	assert.NotNil(t, cc.In)
	assert.NotNil(t, cc.Out)
}
