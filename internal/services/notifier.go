package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

const DefaultNotificationTTL = 5 * time.Second

type Notification struct {
	ID        string    `json:"id"`
	Variant   Variant   `json:"variant"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier holds at most one transient status notification.
type Notifier interface {
	Notify(variant Variant, title, message string) Notification
	Current() *Notification
	Dismiss()
}

type notifier struct {
	ttl time.Duration

	mu      sync.Mutex
	current *Notification
	timer   *time.Timer
}

func NewNotifier(ttl time.Duration) Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &notifier{ttl: ttl}
}

// Notify replaces the current notification. The previous auto-dismiss
// timer is stopped so it cannot clear the new one early.
func (n *notifier) Notify(variant Variant, title, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	now := time.Now()
	note := Notification{
		ID:        uuid.NewString(),
		Variant:   variant,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.current = &note

	id := note.ID
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(id) })
	return note
}

// expire clears the slot only if it still holds notification id; a timer
// that fired while Notify was replacing it must not remove its successor.
func (n *notifier) expire(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current != nil && n.current.ID == id {
		n.current = nil
		n.timer = nil
	}
}

func (n *notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return nil
	}
	note := *n.current
	return &note
}

func (n *notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}
