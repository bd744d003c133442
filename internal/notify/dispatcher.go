// Package notify delivers transient user-facing messages to whoever
// subscribed for them.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Kind classifies a notification
type Kind string

// Notification kinds
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a single message published to listeners
type Notification struct {
	Message string
	Kind    Kind
}

// Listener receives notifications. It runs on the publishing goroutine and
// must not block.
type Listener func(Notification)

// Notifier is the publishing side of a Dispatcher
type Notifier interface {
	Notify(message string, kind Kind)
}

type subscription struct {
	id       uint64
	listener Listener
}

// Dispatcher fans each notification out to its listeners, synchronously and
// in registration order
type Dispatcher struct {
	mu     sync.Mutex
	subs   []subscription
	nextID uint64
	closed bool
}

// NewDispatcher creates a dispatcher with no listeners
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers l and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (d *Dispatcher) Subscribe(l Listener) (unsubscribe func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return func() {}
	}

	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, listener: l})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify delivers a notification to every listener registered at the time of
// the call. Listeners may subscribe or unsubscribe while being notified.
func (d *Dispatcher) Notify(message string, kind Kind) {
	d.mu.Lock()
	snapshot := d.subs
	d.mu.Unlock()

	n := Notification{Message: message, Kind: kind}
	for _, s := range snapshot {
		s.listener(n)
	}
}

// Success publishes a success notification
func (d *Dispatcher) Success(message string) {
	d.Notify(message, KindSuccess)
}

// Error publishes an error notification
func (d *Dispatcher) Error(message string) {
	d.Notify(message, KindError)
}

// Info publishes an informational notification
func (d *Dispatcher) Info(message string) {
	d.Notify(message, KindInfo)
}

// Close drops every listener; later notifications go nowhere
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = nil
	d.closed = true
}

// LogListener returns a listener that writes notifications to logger
func LogListener(logger *slog.Logger) Listener {
	return func(n Notification) {
		level := slog.LevelInfo
		if n.Kind == KindError {
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, n.Message, slog.String("kind", string(n.Kind)))
	}
}
