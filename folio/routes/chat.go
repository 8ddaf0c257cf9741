package routes

import (
	"io"
	"net/http"
	"strconv"

	"folio/folio/controllers"
	"folio/folio/services/quota"
	"folio/folio/utils/jsonutils"
	"folio/folio/utils/logging"
	"folio/folio/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const SessionHeader = "X-Session-ID"

// ChatRoutes serves POST / and the /ws socket. originPatterns lists the
// extra hosts allowed to open the socket; same-host requests always are.
func ChatRoutes(ctrl *controllers.ChatController, originPatterns []string) chi.Router {
	r := chi.NewRouter()

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		sessionID := quota.ResolveSessionID(r)
		w.Header().Set(SessionHeader, sessionID)

		var req types.ChatRequest
		if err := decodeBody(r, &req); err != nil && err != io.EOF {
			jsonutils.WriteJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "Messages are required and must be an array"})
			return
		}
		reply := ctrl.Chat(r.Context(), sessionID, req.Messages)
		if reply.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(reply.RetryAfter))
		}
		jsonutils.WriteRawJSON(w, reply.Status, reply.Body)
	})

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		sessionID := quota.ResolveSessionID(r)
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: originPatterns})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		conn.SetReadLimit(maxBodyBytes)
		ctrl.ChatWebSocket(r.Context(), conn, sessionID)
	})
	return r
}
