package deps

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dcos/dcos-package/cmd/dcos-package/rootcmd"
)

func ProvideLogOptions(env Environment) *rootcmd.LogOptions {
	return &rootcmd.LogOptions{
		LogLevel: env.LogLevel,
		Debug:    env.Debug,
	}
}

func ProvideLogFactory(streams rootcmd.IOStreams, opts *rootcmd.LogOptions) LogFactory {
	return &ZapLogFactory{
		streams: streams,
		opts:    opts,
	}
}

type LogFactory interface {
	Logger() logr.Logger
}

// ZapLogFactory writes logs to the error stream.
// Loggers are created after flags were parsed so --log-level applies.
type ZapLogFactory struct {
	streams rootcmd.IOStreams
	opts    *rootcmd.LogOptions
}

func (f *ZapLogFactory) Logger() logr.Logger {
	lvl, err := f.opts.Level()
	if err != nil {
		lvl = zapcore.ErrorLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(f.streams.ErrOut),
		zap.NewAtomicLevelAt(lvl),
	)

	return zapr.NewLogger(zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)))
}
