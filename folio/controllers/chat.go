package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"folio/folio/services/chat"
	"folio/folio/utils/logging"
	"folio/folio/utils/types"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Reply is a finished chat answer ready to be written to HTTP or a socket.
type Reply struct {
	Status    int
	Body      []byte
	SessionID string
	// RetryAfter is set in seconds on quota rejections.
	RetryAfter int
}

type ChatController struct {
	proxy *chat.Proxy
}

func NewChatController(proxy *chat.Proxy) *ChatController {
	return &ChatController{proxy: proxy}
}

// Chat validates the transcript and runs it through the proxy. Every failure
// is mapped to its status and JSON body here.
func (c *ChatController) Chat(ctx context.Context, sessionID string, rawMessages json.RawMessage) Reply {
	messages, err := chat.ParseTranscript(rawMessages)
	if err != nil {
		return errorReply(sessionID, err)
	}
	res, err := c.proxy.HandleChat(ctx, messages, sessionID)
	if err != nil {
		return errorReply(sessionID, err)
	}
	return Reply{Status: http.StatusOK, Body: res.Payload, SessionID: sessionID}
}

func errorReply(sessionID string, err error) Reply {
	var (
		validation *chat.ValidationError
		config     *chat.ConfigurationError
		quota      *chat.QuotaExceededError
		upstream   *chat.UpstreamError
	)
	switch {
	case errors.As(err, &validation):
		return jsonReply(sessionID, http.StatusBadRequest, types.ErrorResponse{Error: validation.Message})
	case errors.As(err, &config):
		return jsonReply(sessionID, http.StatusInternalServerError, types.ErrorResponse{Error: config.Error()})
	case errors.As(err, &quota):
		reply := jsonReply(sessionID, http.StatusTooManyRequests, types.QuotaExceededResponse{
			Error:     quota.Error(),
			Message:   quota.UserMessage(),
			SessionID: quota.SessionID,
		})
		reply.RetryAfter = quota.RetryAfter(time.Now())
		return reply
	case errors.As(err, &upstream):
		return jsonReply(sessionID, upstream.Status, types.UpstreamErrorResponse{
			Error:   upstream.Error(),
			Details: upstream.Body,
		})
	default:
		logging.ErrorLogger.Error("Error in chat request", zap.String("session_id", sessionID), zap.Error(err))
		return jsonReply(sessionID, http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"})
	}
}

func jsonReply(sessionID string, status int, v any) Reply {
	body, err := json.Marshal(v)
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	return Reply{Status: status, Body: body, SessionID: sessionID}
}

// ChatWebSocket answers each text frame with one {status, body} frame. A
// frame may carry its own token; otherwise the connection's session is used.
func (c *ChatController) ChatWebSocket(ctx context.Context, conn *websocket.Conn, sessionID string) {
	defer conn.Close(websocket.StatusInternalError, "internal error")

	reqID := middleware.GetReqID(ctx)
	for frame := 1; ; frame++ {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			logging.ErrorLogger.Error("websocket read error", zap.Error(err))
			return
		}

		var reply Reply
		var req types.ChatSocketRequest
		switch {
		case typ != websocket.MessageText:
			reply = jsonReply(sessionID, http.StatusBadRequest, types.ErrorResponse{Error: "unsupported data"})
		case json.Unmarshal(data, &req) != nil:
			reply = jsonReply(sessionID, http.StatusBadRequest, types.ErrorResponse{Error: "invalid json"})
		default:
			sid := sessionID
			if req.Token != "" {
				sid = req.Token
			}
			frameCtx := logging.WithTraceID(ctx, fmt.Sprintf("%s/%d", reqID, frame))
			reply = c.Chat(frameCtx, sid, req.Messages)
		}

		out, _ := json.Marshal(types.ChatSocketResponse{Status: reply.Status, Body: reply.Body})
		if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
			logging.ErrorLogger.Error("websocket write error", zap.Error(err))
			return
		}
	}
}
