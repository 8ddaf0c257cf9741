// folio/services/llm/azure_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	httputils "folio/folio/utils/http"
	"folio/folio/utils/logging"

	"go.uber.org/zap"
)

const (
	DefaultMaxTokens   = 800
	DefaultTemperature = 0.7
)

var (
	ErrMissingAPIKey   = errors.New("API key is not configured")
	ErrMissingEndpoint = errors.New("API endpoint is not configured")
)

type Config struct {
	Endpoint    string
	APIKey      string
	Model       string
	APIVersion  string
	Timeout     time.Duration
	MaxTokens   int
	// Temperature is nil for DefaultTemperature; zero is a valid setting.
	Temperature *float64
}

// AzureClient talks to an Azure AI Foundry chat-completions deployment.
type AzureClient struct {
	cfg        Config
	httpClient *http.Client
}

type chatCompletionRequest struct {
	Messages    []json.RawMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
	Model       string            `json:"model,omitempty"`
}

func NewAzureClient(cfg Config) *AzureClient {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == nil {
		t := DefaultTemperature
		cfg.Temperature = &t
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	logging.AppLogger.Info("Azure completion client ready",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("model", cfg.Model),
		zap.String("api_key", logging.MaskAPIKey(cfg.APIKey)),
		zap.Float64("temperature", *cfg.Temperature),
	)
	return &AzureClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Validate reports missing credentials without touching the network.
func (c *AzureClient) Validate() error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.cfg.Endpoint == "" {
		return ErrMissingEndpoint
	}
	return nil
}

func (c *AzureClient) completionsURL() string {
	u := c.cfg.Endpoint + "/chat/completions"
	if c.cfg.APIVersion != "" {
		u += "?api-version=" + url.QueryEscape(c.cfg.APIVersion)
	}
	return u
}

// Complete posts the transcript once, each message forwarded as given. Any
// HTTP status comes back in the response; only transport failures are
// errors. No retries.
func (c *AzureClient) Complete(ctx context.Context, messages []json.RawMessage) (*httputils.Response, error) {
	defer logging.LogDuration(ctx, "azure_chat_complete")()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	req := chatCompletionRequest{
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: *c.cfg.Temperature,
		Model:       c.cfg.Model,
	}

	apiURL := c.completionsURL()
	logging.AppLogger.Info("Sending completion request",
		zap.String("url", apiURL),
		zap.String("model", c.cfg.Model),
		zap.Int("messages", len(messages)),
	)

	resp, err := httputils.PostJSON(ctx, c.httpClient, apiURL, map[string]string{"api-key": c.cfg.APIKey}, req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if !resp.OK() {
		logging.ErrorLogger.Error("Completion API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(resp.Body)),
		)
	}
	return resp, nil
}
