// Package eventbus carries in-process alarm lifecycle transitions from the
// orchestrator to interested observers. Delivery is synchronous, in the
// publisher's goroutine, best-effort and at most once: observers that are
// not subscribed at publish time simply miss the event.
package eventbus

import (
	"sync"

	"alarmd/internal/alarms/domain"
)

// Event is one lifecycle transition.
type Event struct {
	AlarmID int64        `json:"alarm_id"`
	State   domain.State `json:"state"`
}

// Listener receives published events. Listeners run inline under the
// broadcaster lock and must not block or perform long-running work.
type Listener func(Event)

// Broadcaster is an explicit, injected publish/subscribe channel. A single
// lock serializes Publish against Subscribe/Unsubscribe so the listener
// list cannot change mid-iteration.
type Broadcaster struct {
	mu        sync.Mutex
	nextToken int
	listeners []subscription
}

type subscription struct {
	token int
	fn    Listener
}

// NewBroadcaster constructs an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a listener and returns a token for Unsubscribe.
// Listeners are invoked in subscription order.
func (b *Broadcaster) Subscribe(fn Listener) int {
	if b == nil || fn == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextToken++
	b.listeners = append(b.listeners, subscription{token: b.nextToken, fn: fn})
	return b.nextToken
}

// Unsubscribe removes the listener registered under token; no-op for an
// unknown token.
func (b *Broadcaster) Unsubscribe(token int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.listeners {
		if sub.token == token {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers the transition to every currently subscribed listener.
func (b *Broadcaster) Publish(alarmID int64, state domain.State) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	event := Event{AlarmID: alarmID, State: state}
	for _, sub := range b.listeners {
		sub.fn(event)
	}
}
