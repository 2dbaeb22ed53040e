// Package logging builds the structured logger shared by the batch tool.
//
// Entries go to two places: the console, which is human readable in
// development and JSON otherwise, and a rotating JSON log file.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Development switches the console to coloured output.
	Development bool

	// Level is the minimum level for both outputs.
	Level zapcore.Level

	// FilePath is the log file. Empty disables file output.
	FilePath string

	// Rotation applies to FilePath.
	Rotation FileWriterConfig
}

// Logger wraps a zap.Logger together with its sugared form.
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
	opts  Options
}

// NewLogger builds a Logger writing to stdout and, if set, opts.FilePath.
//
//	logger := logging.NewLogger(logging.Options{Level: zapcore.InfoLevel, FilePath: "bgclear.log"})
//	defer logger.Sync()
func NewLogger(opts Options) *Logger {
	var file zapcore.WriteSyncer
	if opts.FilePath != "" {
		file = NewFileWriter(opts.FilePath, opts.Rotation)
	}
	core := NewTeeCore(opts.Level, zapcore.Lock(os.Stdout), file, opts.Development)
	return wrap(zap.New(core, zap.AddCaller()), opts)
}

// NewTeeCore tees console and file output at the same level. The file
// always gets JSON. fileWriter may be nil.
func NewTeeCore(level zapcore.Level, console, fileWriter zapcore.WriteSyncer, isDev bool) zapcore.Core {
	var consoleEncoder zapcore.Encoder
	if isDev {
		consoleEncoder = zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}

	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, console, level)}
	if fileWriter != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(NewEncoderConfig()), fileWriter, level))
	}
	return zapcore.NewTee(cores...)
}

// FromZap wraps an existing zap.Logger, e.g. one built by zaptest.
func FromZap(z *zap.Logger) *Logger {
	return wrap(z, Options{})
}

func wrap(z *zap.Logger, opts Options) *Logger {
	return &Logger{zap: z, sugar: z.Sugar(), opts: opts}
}

// Sync flushes buffered entries. Call it before exiting.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return wrap(l.zap.With(fields...), l.opts)
}

// Named returns a child logger with name appended to the logger name.
func (l *Logger) Named(name string) *Logger {
	return wrap(l.zap.Named(name), l.opts)
}

// Zap exposes the underlying logger for packages that take *zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// IsDevelopment reports whether console output is in development format.
func (l *Logger) IsDevelopment() bool {
	return l.opts.Development
}

// LogFilePath returns the log file path, or "" when file output is disabled.
func (l *Logger) LogFilePath() string {
	return l.opts.FilePath
}
