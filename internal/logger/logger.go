package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"stockdash.com/internal/config"
)

// Logger is the sink handlers and middleware report to. Its methods never
// panic: a failing sink drops the record.
type Logger struct {
	entry *logrus.Entry
}

func New(cfg config.LogConfig) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return &Logger{entry: logrus.NewEntry(l)}
}

// FromLogrus wraps an existing logrus logger, e.g. one with a test hook.
func FromLogrus(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return FromLogrus(l)
}

func (l *Logger) Entry() *logrus.Entry {
	return l.entry
}

// LogError records one error entry for operation with optional context fields.
func (l *Logger) LogError(operation string, err error, context map[string]any) {
	if l == nil || l.entry == nil {
		return
	}
	defer func() { _ = recover() }()

	fields := logrus.Fields{
		"operation": operation,
	}
	for k, v := range context {
		fields[k] = v
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	l.entry.WithFields(fields).Error("Operation failed")
}

// LogRequest records a finished request. Duration is omitted when zero.
func (l *Logger) LogRequest(req *http.Request, status int, duration time.Duration) {
	if l == nil || l.entry == nil || req == nil {
		return
	}
	defer func() { _ = recover() }()

	fields := logrus.Fields{
		"method": req.Method,
		"status": status,
	}
	if req.URL != nil {
		fields["path"] = req.URL.Path
		if req.URL.RawQuery != "" {
			fields["query"] = req.URL.RawQuery
		}
	}
	if req.RemoteAddr != "" {
		fields["remote_addr"] = req.RemoteAddr
	}
	if duration > 0 {
		fields["duration_ms"] = float64(duration.Microseconds()) / 1000
	}

	entry := l.entry.WithFields(fields)
	switch {
	case status >= http.StatusInternalServerError:
		entry.Error("HTTP request")
	case status >= http.StatusBadRequest:
		entry.Warn("HTTP request")
	default:
		entry.Info("HTTP request")
	}
}
