package starfield

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	// With returns a logger that adds the given key/value pairs to every entry.
	With(keysAndValues ...any) Logger
}

// ZapLogger is the default Logger, a sugared zap logger with an atomic level.
type ZapLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

func NewZapLogger(prefix string, debug bool) *ZapLogger {
	return NewZapLoggerTo(zapcore.Lock(os.Stderr), prefix, debug)
}

// NewZapLoggerTo writes console-encoded entries to out.
func NewZapLoggerTo(out zapcore.WriteSyncer, prefix string, debug bool) *ZapLogger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, level)

	logger := NewZapLoggerWithCore(core, level)
	if prefix != "" {
		logger.sugar = logger.sugar.Named(prefix)
	}
	return logger
}

// NewZapLoggerWithCore wraps an existing core; level gates Debugf.
func NewZapLoggerWithCore(core zapcore.Core, level zap.AtomicLevel) *ZapLogger {
	return &ZapLogger{
		level: level,
		sugar: zap.New(core).Sugar(),
	}
}

func (l *ZapLogger) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *ZapLogger) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
	} else {
		l.level.SetLevel(zapcore.InfoLevel)
	}
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.sugar.Debugf(format, args...)
}

func (l *ZapLogger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

func (l *ZapLogger) With(keysAndValues ...any) Logger {
	return &ZapLogger{level: l.level, sugar: l.sugar.With(keysAndValues...)}
}

func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

// LoggingModule installs a zap logger as a resource and flushes it on shutdown.
type LoggingModule struct {
	Prefix string
	Debug  bool
	// Logger, when set, is installed instead of a new console logger.
	Logger *ZapLogger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewZapLogger(m.Prefix, m.Debug)
	}
	app.addResources(logger)
	app.OnShutdown(func() {
		// stderr sync fails on some terminals; nothing useful to do about it
		_ = logger.Sync()
	})
}

// Nop logger and App helper accessor

type nopLogger struct{}

func NewNopLogger() Logger                            { return &nopLogger{} }
func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
func (n *nopLogger) With(keysAndValues ...any) Logger  { return n }

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Never returns nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	for _, r := range app.resources {
		if l, ok := r.(Logger); ok {
			return l
		}
	}
	return NewNopLogger()
}
