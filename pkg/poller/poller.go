// Package poller replays the notification feed for an operator: it polls
// on a fixed interval, reveals each notification of a batch on a staggered
// schedule, and retires it after a fixed lifetime.
package poller

import (
	"context"
	"sort"
	"time"

	"github.com/ManderO9/Gns3Configuration/pkg/notify"
	"github.com/ManderO9/Gns3Configuration/pkg/util"
)

// Default timings, matching the web UI.
const (
	DefaultInterval = time.Second
	DefaultStagger  = 100 * time.Millisecond
	DefaultLifetime = 3 * time.Second
)

// Delay returns when the i-th (0-based) notification of a batch is shown,
// relative to the batch's arrival.
func Delay(i int, stagger time.Duration) time.Duration {
	return time.Duration(i+2) * stagger
}

// Scheduled is a notification with its display delay.
type Scheduled struct {
	notify.Notification
	Delay time.Duration
}

// Schedule assigns display delays to a batch.
func Schedule(batch []notify.Notification, stagger time.Duration) []Scheduled {
	out := make([]Scheduled, len(batch))
	for i, n := range batch {
		out[i] = Scheduled{Notification: n, Delay: Delay(i, stagger)}
	}
	return out
}

// EventType says what happened to an entry.
type EventType int

const (
	Shown EventType = iota
	Expired
)

func (t EventType) String() string {
	if t == Shown {
		return "shown"
	}
	return "expired"
}

// Entry is one notification on display.
type Entry struct {
	ID uint64
	notify.Notification
	ShownAt time.Time
}

// Event is emitted when an entry appears or disappears.
type Event struct {
	Type  EventType
	Entry Entry
}

// Poller drives a Feed. The zero value of each timing field selects its default.
type Poller struct {
	Feed     Feed
	Interval time.Duration
	Stagger  time.Duration
	Lifetime time.Duration

	// OnError is called with fetch failures. Polling continues regardless.
	OnError func(error)
}

type pending struct {
	due time.Time
	n   notify.Notification
}

func (p *Poller) timings() (interval, stagger, lifetime time.Duration) {
	interval, stagger, lifetime = p.Interval, p.Stagger, p.Lifetime
	if interval <= 0 {
		interval = DefaultInterval
	}
	if stagger <= 0 {
		stagger = DefaultStagger
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return
}

// Run polls until ctx is done, calling emit from this goroutine for every
// Shown and Expired event. It returns ctx.Err().
func (p *Poller) Run(ctx context.Context, emit func(Event)) error {
	interval, stagger, lifetime := p.timings()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	var (
		queue  []pending
		shown  []Entry
		nextID uint64
	)

	for {
		now := time.Now()
		for len(queue) > 0 && !queue[0].due.After(now) {
			nextID++
			e := Entry{ID: nextID, Notification: queue[0].n, ShownAt: now}
			queue = queue[1:]
			shown = append(shown, e)
			emit(Event{Type: Shown, Entry: e})
		}
		for len(shown) > 0 && !shown[0].ShownAt.Add(lifetime).After(now) {
			emit(Event{Type: Expired, Entry: shown[0]})
			shown = shown[1:]
		}

		wait := time.Hour
		if len(queue) > 0 {
			wait = min(wait, queue[0].due.Sub(now))
		}
		if len(shown) > 0 {
			wait = min(wait, shown[0].ShownAt.Add(lifetime).Sub(now))
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		case <-ticker.C:
			empty, batch, err := p.Feed.Fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if p.OnError != nil {
					p.OnError(err)
				} else {
					util.WithField("feed", "notifications").WithError(err).Debug("Poll failed")
				}
				continue
			}
			if empty {
				continue
			}
			arrived := time.Now()
			for _, s := range Schedule(batch, stagger) {
				queue = append(queue, pending{due: arrived.Add(s.Delay), n: s.Notification})
			}
			sort.SliceStable(queue, func(i, j int) bool { return queue[i].due.Before(queue[j].due) })
		}
	}
}
