package websocket

import (
	"log"

	"github.com/cardvault/ptcg-companion/internal/events"
)

// Observer forwards dispatched domain events to websocket clients.
type Observer struct {
	hub *Hub
}

// NewObserver creates an observer bound to the given hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event to all connected clients.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[WebSocket] Cannot forward event %s: hub is nil", event.Type)
		return nil
	}
	o.hub.BroadcastEvent(event)
	return nil
}

// Name identifies the observer in dispatcher logs.
func (o *Observer) Name() string {
	return "WebSocketObserver"
}

// ShouldHandle forwards every event type to the frontend.
func (o *Observer) ShouldHandle(string) bool {
	return true
}

var _ events.Observer = (*Observer)(nil)
