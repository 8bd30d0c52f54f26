package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theopenlane/echoaudit/internal/events"
)

const (
	// streamBuffer is the number of events held for a slow stream client
	streamBuffer = 32
	// keepAliveInterval is how often an idle stream sends a comment line
	keepAliveInterval = 15 * time.Second
)

// streamMessage is one encoded event queued for a stream client
type streamMessage struct {
	name string
	data []byte
}

// handleEvents streams bus events to the client as server-sent events. Events
// are dropped for a client that falls more than streamBuffer events behind
//
//	@Summary		Stream audit events
//	@Description	Server-sent events carrying AUDIT_COMPLETED, AUDIT_ERROR, START_AUDIT and EXTRACT_PAGE_TEXT messages
//	@Tags			events
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"event stream"
//	@Failure		503	{object}	Response{error=Error}
//	@Router			/events [get]
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrEventsNotConfigured.Error())
		return
	}

	rc := http.NewResponseController(w)

	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug().Err(err).Msg("could not clear write deadline for event stream")
	}

	queue := make(chan streamMessage, streamBuffer)

	unsubscribe := h.bus.Subscribe(func(_ context.Context, e events.Event) error {
		data, err := events.Encode(e)
		if err != nil {
			return err
		}

		select {
		case queue <- streamMessage{name: e.Name(), data: data}:
			return nil
		default:
			return ErrStreamClientBehind
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		log.Debug().Err(err).Msg(ErrStreamingUnsupported.Error())
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-queue:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.name, msg.data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}
