package rootcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":    zapcore.DebugLevel,
	"info":     zapcore.InfoLevel,
	"warning":  zapcore.WarnLevel,
	"error":    zapcore.ErrorLevel,
	"critical": zapcore.DPanicLevel,
}

// LogOptions are the logging settings shared by all commands.
type LogOptions struct {
	LogLevel string
	Debug    bool
}

func (o *LogOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(
		&o.LogLevel,
		"log-level",
		o.LogLevel,
		"One of debug, info, warning, error or critical.",
	)
	flags.BoolVar(
		&o.Debug,
		"debug",
		o.Debug,
		"Enable verbose logging.",
	)
}

// Level returns the minimum level to log at.
// Debug always lowers the level so verbose logs are written.
func (o *LogOptions) Level() (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(o.LogLevel))
	if name == "" {
		name = "error"
	}

	lvl, ok := logLevels[name]
	if !ok {
		return 0, fmt.Errorf(
			"Log level set to an unknown value [%s]. Valid values are ['debug', 'info', 'warning', 'error', 'critical']",
			o.LogLevel)
	}
	if o.Debug {
		return zapcore.DebugLevel, nil
	}
	return lvl, nil
}
