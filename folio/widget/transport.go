package widget

import (
	"context"
	"net/http"
	"strings"
	"time"

	httputils "folio/folio/utils/http"
	"folio/folio/utils/types"
)

// HTTPTransport posts to {baseURL}/api/chat.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, sessionID string, messages []types.Message) (*Response, error) {
	headers := map[string]string{}
	if sessionID != "" {
		headers["Authorization"] = sessionID
	}
	resp, err := httputils.PostJSON(ctx, t.client, t.baseURL+"/api/chat", headers, map[string]any{"messages": messages})
	if err != nil {
		return nil, err
	}
	return &Response{
		Status:    resp.StatusCode,
		Body:      resp.Body,
		SessionID: resp.Header.Get("X-Session-ID"),
	}, nil
}
