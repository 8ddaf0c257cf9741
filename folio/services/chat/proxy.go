package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"folio/folio/services/metrics"
	"folio/folio/services/quota"
	httputils "folio/folio/utils/http"
	"folio/folio/utils/jsonutils"
	"folio/folio/utils/logging"
	"folio/folio/utils/types"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Completer is the upstream chat-completions client.
type Completer interface {
	Validate() error
	Complete(ctx context.Context, messages []json.RawMessage) (*httputils.Response, error)
}

// Result is a successful proxied completion.
type Result struct {
	SessionID          string
	QuestionsRemaining int
	// Payload is the upstream JSON with the session field merged in.
	Payload []byte
}

type Proxy struct {
	client  Completer
	tracker *quota.Tracker
	persona string
	metrics *metrics.Metrics
}

type ProxyOption func(*Proxy)

// WithPersona replaces DefaultPersona. Empty strings are ignored.
func WithPersona(prompt string) ProxyOption {
	return func(p *Proxy) {
		if prompt != "" {
			p.persona = prompt
		}
	}
}

func WithMetrics(m *metrics.Metrics) ProxyOption {
	return func(p *Proxy) {
		p.metrics = m
	}
}

func NewProxy(client Completer, tracker *quota.Tracker, opts ...ProxyOption) *Proxy {
	p := &Proxy{
		client:  client,
		tracker: tracker,
		persona: DefaultPersona,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseTranscript splits the raw "messages" field into its elements, each
// kept byte for byte. Missing, null and non-array values are rejected, as are
// elements that are not objects. An empty array is accepted.
func ParseTranscript(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ValidationError{Message: "Messages are required and must be an array"}
	}
	var messages []json.RawMessage
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, &ValidationError{Message: "Messages are required and must be an array"}
	}
	for i, m := range messages {
		if !gjson.ParseBytes(m).IsObject() {
			return nil, &ValidationError{Message: fmt.Sprintf("Message %d must be an object", i)}
		}
	}
	return messages, nil
}

// HandleChat runs one question through the quota and the upstream service.
// The question is charged before the upstream call, so a failed call still
// counts against the session.
func (p *Proxy) HandleChat(ctx context.Context, messages []json.RawMessage, sessionID string) (*Result, error) {
	defer logging.LogDuration(ctx, "chat_handle")()

	if err := p.client.Validate(); err != nil {
		logging.ErrorLogger.Error("Completion API not configured", zap.Error(err))
		p.metrics.ChatRequest(metrics.OutcomeNotConfigured)
		return nil, &ConfigurationError{Err: err}
	}

	status, err := p.tracker.Reserve(ctx, sessionID)
	if err != nil {
		p.metrics.ChatRequest(metrics.OutcomeTransport)
		return nil, &TransportError{Err: err}
	}
	if !status.Allowed {
		logging.AppLogger.Info("Chat quota exceeded",
			zap.String("session_id", sessionID),
			zap.Int("asked", status.QuestionsAsked),
		)
		p.metrics.ChatRequest(metrics.OutcomeQuotaExceeded)
		return nil, &QuotaExceededError{
			SessionID:    sessionID,
			MaxQuestions: p.tracker.Max(),
			ResetsAt:     status.ResetsAt(p.tracker.Window()),
		}
	}

	outbound := withSystemPrompt(messages, p.persona)

	start := time.Now()
	resp, err := p.client.Complete(ctx, outbound)
	p.metrics.UpstreamDuration(time.Since(start))
	if err != nil {
		logging.ErrorLogger.Error("Completion request failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		p.metrics.ChatRequest(metrics.OutcomeTransport)
		return nil, &TransportError{Err: err}
	}
	if !resp.OK() {
		p.metrics.ChatRequest(metrics.OutcomeUpstreamError)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(resp.Body)}
	}

	session := types.SessionInfo{ID: sessionID, QuestionsRemaining: status.Remaining}
	payload, err := jsonutils.MergeField(resp.Body, "session", session)
	if err != nil {
		logging.ErrorLogger.Error("Unusable completion payload",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		p.metrics.ChatRequest(metrics.OutcomeTransport)
		return nil, &TransportError{Err: fmt.Errorf("invalid upstream payload: %w", err)}
	}

	p.metrics.ChatRequest(metrics.OutcomeSuccess)
	return &Result{
		SessionID:          sessionID,
		QuestionsRemaining: status.Remaining,
		Payload:            payload,
	}, nil
}
