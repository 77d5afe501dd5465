// Package events distributes domain events (badge unlocks, store updates)
// to registered observers such as the websocket hub.
package events

import (
	"log"
	"sync"
)

// Event types dispatched by the companion core.
const (
	TypeBadgeEarned       = "badge:earned"
	TypeCollectionUpdated = "collection:updated"
	TypeDeckUpdated       = "deck:updated"
)

// Event is a domain event with a typed payload.
type Event struct {
	// Type is the event type (e.g., "badge:earned").
	Type string

	// Data contains the event payload.
	Data any
}

// BadgeEarnedPayload is the payload of a badge:earned event.
type BadgeEarnedPayload struct {
	BadgeID string `json:"badgeId"`
	Name    string `json:"name"`
	Rarity  string `json:"rarity,omitempty"`
}

// Observer receives dispatched events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// Name returns a human-readable name for logging.
	Name() string

	// ShouldHandle filters which event types this observer receives.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to observers. Thread-safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer. It will be notified of all future events it
// elects to handle.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[Events] Registered observer: %s", observer.Name())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Printf("[Events] Unregistered observer: %s", observer.Name())
			return
		}
	}
}

// Dispatch delivers an event to every observer that handles its type.
// Observer failures are logged and do not stop delivery to the rest.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, obs := range observers {
		if !obs.ShouldHandle(event.Type) {
			continue
		}
		if err := obs.OnEvent(event); err != nil {
			log.Printf("[Events] Observer %s failed on %s: %v", obs.Name(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}
