package websocket

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventPublisher is what services depend on to push loan and transaction
// changes to dashboards.
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}

var (
	_ EventPublisher = (*Hub)(nil)
	_ EventPublisher = PublisherFunc(nil)
	_ EventPublisher = (*TracedPublisher)(nil)
)

// Publish fans the event out to every dashboard of the workspace.
func (h *Hub) Publish(workspaceID int32, event Event) {
	h.Broadcast(workspaceID, event)
}

// PublisherFunc lets a plain function act as an EventPublisher.
type PublisherFunc func(workspaceID int32, event Event)

func (f PublisherFunc) Publish(workspaceID int32, event Event) {
	if f != nil {
		f(workspaceID, event)
	}
}

// TracedPublisher records every event at debug level before handing it on.
// Events for workspaces with no open dashboard are still logged so reminder
// runs can be followed without a browser attached.
type TracedPublisher struct {
	next   EventPublisher
	hub    *Hub
	logger zerolog.Logger
}

// NewTracedPublisher wraps next. hub may be nil; when set, the log line carries
// the number of dashboards that will receive the event.
func NewTracedPublisher(next EventPublisher, hub *Hub) *TracedPublisher {
	return &TracedPublisher{
		next:   next,
		hub:    hub,
		logger: log.With().Str("component", "ws_events").Logger(),
	}
}

func (p *TracedPublisher) Publish(workspaceID int32, event Event) {
	ev := p.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("type", event.Type).
		Str("entity", string(event.Entity))
	if p.hub != nil {
		ev = ev.Int("recipients", p.hub.ClientCount(workspaceID))
	}
	ev.Msg("Event published")

	if p.next != nil {
		p.next.Publish(workspaceID, event)
	}
}
