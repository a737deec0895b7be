package jsonbin

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelLoading Level = "loading"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// defaultHideDelay is how long a transient status stays visible.
const defaultHideDelay = 3 * time.Second

// Status is the transient sync message surfaced to the UI.
type Status struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// StatusTracker holds the current sync status. Transient messages clear
// themselves after hideDelay; errors and warnings stay until replaced.
type StatusTracker struct {
	mu        sync.Mutex
	current   *Status
	hide      *time.Timer
	hideDelay time.Duration
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{hideDelay: defaultHideDelay}
}

func (t *StatusTracker) Show(level Level, message string) {
	t.set(level, message, false)
}

// ShowTransient shows a message that auto-hides after hideDelay.
func (t *StatusTracker) ShowTransient(level Level, message string) {
	t.set(level, message, true)
}

func (t *StatusTracker) set(level Level, message string, transient bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hide != nil {
		t.hide.Stop()
		t.hide = nil
	}
	t.current = &Status{Level: level, Message: message, At: time.Now()}
	if transient {
		t.hide = time.AfterFunc(t.hideDelay, t.Hide)
	}
}

func (t *StatusTracker) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
	if t.hide != nil {
		t.hide.Stop()
		t.hide = nil
	}
}

// Current returns a copy of the active status, or nil when hidden.
func (t *StatusTracker) Current() *Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	s := *t.current
	return &s
}
