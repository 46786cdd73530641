package logx

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level controla la verbosidad del logger global
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Fields son pares clave/valor estructurados
type Fields map[string]any

var std = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// SetLevel cambia el nivel mínimo que se escribe
func SetLevel(level Level) {
	switch level {
	case LevelDebug:
		std.SetLevel(logrus.DebugLevel)
	case LevelWarn:
		std.SetLevel(logrus.WarnLevel)
	case LevelError:
		std.SetLevel(logrus.ErrorLevel)
	default:
		std.SetLevel(logrus.InfoLevel)
	}
}

// ParseLevel traduce el valor de LOG_LEVEL
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetFormat selecciona "json" o texto
func SetFormat(format string) {
	if format == "json" {
		std.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
		return
	}
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetOutput redirige la salida (usado en tests)
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatal(args ...any)                 { std.Fatal(args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }

// ============================================================================
// Structured entries
// ============================================================================

// Entry es un logger con campos fijos
type Entry struct {
	entry *logrus.Entry
}

// WithFields crea una entrada con los campos dados
func WithFields(fields Fields) *Entry {
	return &Entry{entry: std.WithFields(logrus.Fields(fields))}
}

// WithField crea una entrada con un único campo
func WithField(key string, value any) *Entry {
	return &Entry{entry: std.WithField(key, value)}
}

// WithError adjunta el error bajo la clave "error"
func WithError(err error) *Entry {
	return &Entry{entry: std.WithError(err)}
}

func (e *Entry) WithField(key string, value any) *Entry {
	return &Entry{entry: e.entry.WithField(key, value)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{entry: e.entry.WithError(err)}
}

func (e *Entry) Debug(args ...any)                 { e.entry.Debug(args...) }
func (e *Entry) Debugf(format string, args ...any) { e.entry.Debugf(format, args...) }
func (e *Entry) Info(args ...any)                  { e.entry.Info(args...) }
func (e *Entry) Infof(format string, args ...any)  { e.entry.Infof(format, args...) }
func (e *Entry) Warn(args ...any)                  { e.entry.Warn(args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.entry.Warnf(format, args...) }
func (e *Entry) Error(args ...any)                 { e.entry.Error(args...) }
func (e *Entry) Errorf(format string, args ...any) { e.entry.Errorf(format, args...) }
