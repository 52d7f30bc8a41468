package console

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a user-visible message raised by a screen.
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Notifier surfaces notifications to the person driving the console.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes notifications to the logger. It is the default when no
// notifier is configured.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logNotifier{logger: logger}
}

func (n logNotifier) Notify(note Notification) {
	fields := []zap.Field{zap.String("level", string(note.Level))}
	if note.Err != nil {
		fields = append(fields, zap.Error(note.Err))
		n.logger.Warn(note.Message, fields...)
		return
	}
	n.logger.Info(note.Message, fields...)
}

// Recorder keeps every notification in order.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

func successf(format string, args ...interface{}) Notification {
	return Notification{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)}
}

func failure(err error, format string, args ...interface{}) Notification {
	return Notification{Level: LevelError, Message: fmt.Sprintf(format, args...), Err: err}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
