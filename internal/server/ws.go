package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/skypro1111/audio-cast-service/internal/notify"
)

const wsWriteTimeout = 5 * time.Second

// handleWS upgrades an observer connection. Each fresh observer receives a
// welcome message followed by a synchronous snapshot of the current playback
// state, then all subsequent broadcasts.
func (h *HTTPServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket accept failed", slog.String("error", err.Error()))
		return
	}

	// CloseRead discards inbound messages and cancels the context when
	// the peer goes away
	ctx := conn.CloseRead(r.Context())

	// Register before capturing the snapshot so no broadcast can slip
	// between the two. Events queued during the handshake are delivered
	// after the snapshot and reflect state the snapshot already covers.
	observer := h.notifier.Register()
	h.metrics.SetObserversConnected(h.notifier.ObserverCount())
	h.logger.Info("Observer connected", slog.Int("observers", h.notifier.ObserverCount()))

	defer func() {
		h.notifier.Unregister(observer)
		h.metrics.SetObserversConnected(h.notifier.ObserverCount())
		h.logger.Info("Observer disconnected", slog.Int("observers", h.notifier.ObserverCount()))
	}()

	if err := h.writeEvent(ctx, conn, notify.NewWelcomeEvent(serviceVersion)); err != nil {
		conn.Close(websocket.StatusInternalError, "welcome failed")
		return
	}

	// The snapshot reflects the state at connect time
	st := h.manager.Status()
	if err := h.writeEvent(ctx, conn, notify.NewStatusEvent(st.Playing, st.CurrentFile)); err != nil {
		conn.Close(websocket.StatusInternalError, "snapshot failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case <-observer.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return

		case payload := <-observer.Events():
			wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				h.logger.Debug("Observer write failed", slog.String("error", err.Error()))
				conn.Close(websocket.StatusAbnormalClosure, "write failed")
				return
			}
		}
	}
}

// writeEvent marshals and writes one event to the connection
func (h *HTTPServer) writeEvent(ctx context.Context, conn *websocket.Conn, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()

	return conn.Write(wctx, websocket.MessageText, payload)
}
