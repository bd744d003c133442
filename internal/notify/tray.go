package notify

import (
	"sort"
	"sync"
	"time"
)

// DefaultTimeout is how long a notification stays in a Tray
const DefaultTimeout = 5 * time.Second

// Entry is a notification held by a Tray
type Entry struct {
	ID uint64
	Notification
	CreatedAt time.Time
}

// TrayOption configures a Tray
type TrayOption func(*Tray)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) TrayOption {
	return func(t *Tray) {
		t.timeout = d
	}
}

type trayEntry struct {
	entry Entry
	timer *time.Timer
}

// Tray keeps the currently visible notifications. Each entry dismisses
// itself after the timeout unless dismissed earlier.
type Tray struct {
	mu          sync.Mutex
	entries     map[uint64]*trayEntry
	nextID      uint64
	timeout     time.Duration
	unsubscribe func()
}

// NewTray subscribes a tray to d
func NewTray(d *Dispatcher, opts ...TrayOption) *Tray {
	t := &Tray{
		entries: make(map[uint64]*trayEntry),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.unsubscribe = d.Subscribe(t.add)
	return t
}

func (t *Tray) add(n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	t.entries[id] = &trayEntry{
		entry: Entry{ID: id, Notification: n, CreatedAt: time.Now()},
		timer: time.AfterFunc(t.timeout, func() { t.Dismiss(id) }),
	}
}

// Active returns the visible notifications, oldest first
func (t *Tray) Active() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Dismiss removes one notification. Unknown ids are ignored.
func (t *Tray) Dismiss(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[id]; ok {
		e.timer.Stop()
		delete(t.entries, id)
	}
}

// Close unsubscribes the tray and drops every pending notification
func (t *Tray) Close() {
	t.unsubscribe()

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, e := range t.entries {
		e.timer.Stop()
		delete(t.entries, id)
	}
}
