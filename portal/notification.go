package portal

import (
	"context"
	"log/slog"

	"github.com/iw2rmb/tandem/internal/logging"
)

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a user-facing message raised by a binding.
type Notification struct {
	Level       Level
	Message     string
	Description string
	Dismissable bool
	// LinkURL points at further help, if any.
	LinkURL string
}

type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrDefault(logger).With(slog.String("component", "notifications"))}
}

func (n *LogNotifier) Notify(msg Notification) {
	level := slog.LevelInfo
	switch msg.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	attrs := []slog.Attr{slog.String("description", msg.Description)}
	if msg.LinkURL != "" {
		attrs = append(attrs, slog.String("link", msg.LinkURL))
	}
	n.logger.LogAttrs(context.Background(), level, msg.Message, attrs...)
}

func notifierOrLog(n Notifier, logger *slog.Logger) Notifier {
	if n == nil {
		return NewLogNotifier(logger)
	}
	return n
}
