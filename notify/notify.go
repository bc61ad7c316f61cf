// Package notify delivers user-facing notifications. Delivery is fire and
// forget: sinks never report back to the caller.
package notify

import (
	"sync"
	"time"

	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
)

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeveritySuccess     Severity = "success"
	SeverityDestructive Severity = "destructive"
)

// Notification is one delivered message.
type Notification struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at"`
}

type Notifier interface {
	Notify(title, description string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, description string, severity Severity)

func (f NotifierFunc) Notify(title, description string, severity Severity) {
	f(title, description, severity)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(string, string, Severity) {})

// Multi fans a notification out to every sink in order.
type Multi []Notifier

func (m Multi) Notify(title, description string, severity Severity) {
	for _, n := range m {
		if n != nil {
			n.Notify(title, description, severity)
		}
	}
}

// LogNotifier writes notifications to a logger; destructive ones at warn.
type LogNotifier struct {
	Log logger.Logger
}

func (l LogNotifier) Notify(title, description string, severity Severity) {
	fields := map[string]any{
		"title":       title,
		"description": description,
		"severity":    string(severity),
	}
	if severity == SeverityDestructive {
		l.Log.Warn("notification", fields)
		return
	}
	l.Log.Info("notification", fields)
}

// Counted wraps n and counts deliveries per severity.
func Counted(n Notifier, rec metrics.Recorder) Notifier {
	return NotifierFunc(func(title, description string, severity Severity) {
		rec.IncCounter(metrics.Notifications, map[string]string{"outcome": string(severity)})
		n.Notify(title, description, severity)
	})
}

// Feed keeps the most recent notifications in memory for clients that poll.
type Feed struct {
	mu      sync.Mutex
	now     func() time.Time
	backlog int
	nextID  uint64
	items   []Notification
}

// NewFeed keeps at most backlog entries; backlog <= 0 means 50.
func NewFeed(backlog int) *Feed {
	if backlog <= 0 {
		backlog = 50
	}
	return &Feed{now: time.Now, backlog: backlog}
}

func (f *Feed) Notify(title, description string, severity Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.items = append(f.items, Notification{
		ID:          f.nextID,
		Title:       title,
		Description: description,
		Severity:    severity,
		At:          f.now(),
	})
	if over := len(f.items) - f.backlog; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// Since returns notifications with an ID greater than id, oldest first.
func (f *Feed) Since(id uint64) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		if n.ID > id {
			out = append(out, n)
		}
	}
	return out
}

// Recent returns every retained notification, oldest first.
func (f *Feed) Recent() []Notification {
	return f.Since(0)
}
