// Package notify is the transient user notification channel (the flash
// message banner of the app).
package notify

import (
	"sync"

	"marketplace/pkg/logger"
)

type Type string

const (
	Success Type = "success"
	Danger  Type = "danger"
	Info    Type = "info"
)

type Notification struct {
	Message string
	Type    Type
}

type Notifier interface {
	Show(n Notification)
}

// LogNotifier writes notifications to the application log. It is what the
// headless client uses in place of a banner.
type LogNotifier struct{}

func (LogNotifier) Show(n Notification) {
	switch n.Type {
	case Danger:
		logger.Warn("notification [%s]: %s", n.Type, n.Message)
	default:
		logger.Info("notification [%s]: %s", n.Type, n.Message)
	}
}

// Recorder keeps every notification it is shown.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Show(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
