package v1alpha1

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/questforge/questmap/internal/errors"
	framesvc "github.com/questforge/questmap/internal/services/frame"
)

var upgrader = websocket.Upgrader{
	// Authoring clients connect from local tooling during development.
	// TODO: restrict origins once the production client origin is known.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// frameSocketError is sent in place of a frame result when a request fails.
// The connection stays open; a bad frame input should not kill the stream.
type frameSocketError struct {
	Error errors.HTTPError `json:"error"`
}

// frameSocket upgrades the connection and serves a request/response frame
// loop: each client message is an EvaluateFrameInput, each reply a full
// EvaluateFrameOutput. The client drives the frame rate.
func (h *Handler) frameSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade frame socket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	slog.Info("Frame socket connected", "remote", conn.RemoteAddr())

	for {
		var input framesvc.EvaluateFrameInput
		if err := conn.ReadJSON(&input); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("Frame socket closed unexpectedly", "error", err)
			}
			return
		}

		output, err := h.frameService.EvaluateFrame(r.Context(), &input)
		if err != nil {
			writeErr := conn.WriteJSON(frameSocketError{
				Error: errors.HTTPError{
					Code:    errors.GetCode(err).String(),
					Message: errors.GetMessage(err),
					Meta:    errors.GetMeta(err),
				},
			})
			if writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(output); err != nil {
			return
		}
	}
}
