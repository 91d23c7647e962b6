package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/pbmartins/estoque/internal/auth"
)

// HandleWebSocket upgrades the connection and runs it as a hub client in
// the viewer's active-owner group. Must run behind the auth middleware.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := auth.OwnerID(r.Context())
		if ownerID == 0 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, ownerID)
		client.Run(r.Context())
	}
}
