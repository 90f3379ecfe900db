package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/ledchaser/internal/events"
)

// registerSSERoutes registers the attribute change stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event stream",
		Description: "Mode and period changes, rejected writes and sequencer state as Server-Sent Events",
		Tags:        []string{"events"},
	}, map[string]any{
		"mode-changed":    events.ModeChangedEvent{},
		"period-changed":  events.PeriodChangedEvent{},
		"store-rejected":  events.StoreRejectedEvent{},
		"sequencer-state": events.SequencerStateEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 16)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.ModeChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.PeriodChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.StoreRejectedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.SequencerStateEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		streamEvents(ctx, eventCh, send)
	})
}

// streamEvents forwards eventCh to the client until it disconnects.
func streamEvents(ctx context.Context, eventCh <-chan any, send sse.Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventCh:
			if err := send.Data(event); err != nil {
				return
			}
		}
	}
}
