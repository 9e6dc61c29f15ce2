package notify

import "sync"

// Publisher accepts notifications.
type Publisher interface {
	Append(message string, kind Kind)
}

// Mailbox is a drain-once queue of pending notifications, safe for
// concurrent use by any number of publishers and pollers.
//
// DrainAll takes the whole pending batch under the same lock Append uses,
// so every notification is delivered exactly once. A notification appended
// while a drain is in progress lands either in that batch or in the next
// one; callers must not depend on which.
type Mailbox struct {
	mu      sync.Mutex
	pending []Notification
	dirty   bool
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Append queues a notification and marks the mailbox dirty.
func (m *Mailbox) Append(message string, kind Kind) {
	m.mu.Lock()
	m.pending = append(m.pending, Notification{Message: message, Kind: kind})
	m.dirty = true
	m.mu.Unlock()
}

// DrainAll returns every pending notification in append order and empties
// the mailbox. When nothing is pending it returns (true, nil) without
// touching state.
func (m *Mailbox) DrainAll() (empty bool, batch []Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return true, nil
	}
	batch = m.pending
	m.pending = nil
	m.dirty = false
	return false, batch
}

// Len returns the number of pending notifications.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
