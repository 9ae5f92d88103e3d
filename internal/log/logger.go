package log

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"jsonview/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to JSON lines.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyLevel: "level",
			},
		})
	}
}

// WithFile appends log lines to path in addition to the current output.
// A file that cannot be opened is reported on stderr and ignored.
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.New().WithError(err).Error("cannot open log file")
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(l.base.Out, f))
	}
}

// WithFileOnly writes log lines to path and nowhere else. The TUI uses it so
// log output does not corrupt the terminal.
func WithFileOnly(path string) Option {
	return func(l *Logger) {
		l.base.SetOutput(io.Discard)
		WithFile(path)(l)
	}
}

// Logger is a thin structured logger on top of logrus.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a logger writing text lines to stdout unless options
// say otherwise.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the log file, if any.
func Close() error {
	if logger.file == nil {
		return nil
	}
	return logger.file.Close()
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// With returns a logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{base: l.base, entry: l.entry.WithFields(data), file: l.file}
}

// WithContext attaches ctx to subsequent log lines.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{base: l.base, entry: l.entry.WithContext(ctx), file: l.file}
}

func (l *Logger) Info(msg string)                          { l.entry.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *Logger) Warn(msg string)                          { l.entry.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *Logger) Error(msg string)                         { l.entry.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs msg when debug output is enabled.
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message when debug output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

// Info logs an informational message
func Info(msg string) {
	logger.Info(msg)
}

// Infof logs a formatted informational message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a debug message
func Debug(msg string) {
	logger.Debug(msg)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a warning
func Warn(msg string) {
	logger.Warn(msg)
}

// Warnf logs a formatted warning
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs an error message
func Error(msg string) {
	logger.Error(msg)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWithFields returns the package logger carrying fields.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger carrying err and whatever
// context the application error types expose.
func LogWithError(err error) *Logger {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		fields = append(fields, F("error_kind", kind.String()))
	}

	var loadErr *errors.LoadError
	if errors.As(err, &loadErr) {
		fields = append(fields, F("name", loadErr.Name()))
	}
	var statusErr *errors.StatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, F("status", statusErr.Code), F("url", statusErr.URL))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}

	return logger.With(fields...)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}
