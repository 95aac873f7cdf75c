package notes

import (
	"time"

	"notehub/cmd/devhub/handlers/handlerutil"
	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/clients/notehub"
	"notehub/internal/logger"
	"notehub/internal/services/hub"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

const (
	// WSClosePolicyViolation represents WebSocket close code for policy violation
	WSClosePolicyViolation = 1008

	closeWriteWait = time.Second
)

// Changes is the source of note change events
type Changes interface {
	Subscribe() (*hub.Subscriber[notehub.ChangeEvent], func())
}

// StreamHandlers pushes note changes to websocket clients
type StreamHandlers struct {
	changes    Changes
	maxSession time.Duration
}

// NewStreamHandlers creates the change stream handlers. Streams are closed
// with a policy violation once maxSession has passed.
func NewStreamHandlers(changes Changes, maxSession time.Duration) *StreamHandlers {
	return &StreamHandlers{
		changes:    changes,
		maxSession: maxSession,
	}
}

// Upgrade lets only websocket handshakes through to Stream.
func (h *StreamHandlers) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	logger.L().Warn("websocket upgrade required", "handler", "Upgrade", "path", c.Path())
	return httperr.Fail(httperr.E{
		Status:  fiber.StatusBadRequest,
		Message: "WebSocket upgrade required",
	})
}

// Stream handles one change stream connection
// @Summary Stream note changes
// @Description Upgrades to a websocket and sends {"type":"created"|"deleted","note":{...}} for every change. Deleted events carry only the note id.
// @Tags notes
// @Security Bearer
// @Success 101 {object} notehub.ChangeEvent
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /notes/stream [get]
func (h *StreamHandlers) Stream(c *websocket.Conn) {
	subject, _ := c.Locals(handlerutil.SubjectKey).(string)
	log := logger.L().With("subject", subject, "conn_id", ulid.Make().String())

	sub, cancel := h.changes.Subscribe()
	defer cancel()

	log.Info("change stream opened")

	// The client is not expected to send anything; reading surfaces its
	// close frame and answers pings.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn("change stream read failed", "error", err)
				}
				return
			}
		}
	}()

	// the connection is released once Stream returns, so the reader must
	// be gone by then
	shutdown := func(code int, text string) {
		msg := websocket.FormatCloseMessage(code, text)
		if err := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait)); err != nil {
			log.Debug("failed to send close message", "error", err)
		}
		_ = c.Close()
		<-readDone
	}

	session := time.NewTimer(h.maxSession)
	defer session.Stop()

	for {
		select {
		case ev, ok := <-sub.Ch:
			if !ok {
				log.Info("change stream ended by server")
				shutdown(websocket.CloseGoingAway, "server shutting down")
				return
			}
			if ev.Type == notehub.ChangeDeleted {
				ev.Note = notehub.Note{ID: ev.Note.ID}
			}
			if err := c.WriteJSON(ev); err != nil {
				log.Error("failed to write change event", "error", err)
				_ = c.Close()
				<-readDone
				return
			}

		case <-session.C:
			log.Info("change stream session timeout")
			shutdown(WSClosePolicyViolation, "session timeout")
			return

		case <-readDone:
			log.Info("change stream closed by client")
			return
		}
	}
}
