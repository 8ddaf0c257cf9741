package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/folio/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAzureClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-05-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "key-1", r.Header.Get("api-key"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, int64(800), gjson.GetBytes(raw, "max_tokens").Int())
		assert.InDelta(t, 0.7, gjson.GetBytes(raw, "temperature").Float(), 1e-9)
		assert.Equal(t, "DeepSeek-V3", gjson.GetBytes(raw, "model").String())
		assert.Equal(t, int64(2), gjson.GetBytes(raw, "messages.#").Int())
		assert.Equal(t, types.RoleSystem, gjson.GetBytes(raw, "messages.0.role").String())
		assert.Equal(t, "ops", gjson.GetBytes(raw, "messages.0.name").String())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := NewAzureClient(Config{
		Endpoint:   srv.URL + "/models",
		APIKey:     "key-1",
		Model:      "DeepSeek-V3",
		APIVersion: "2024-05-01-preview",
	})

	resp, err := c.Complete(context.Background(), []json.RawMessage{
		json.RawMessage(`{"role":"system","content":"persona","name":"ops"}`),
		json.RawMessage(`{"role":"user","content":"hi"}`),
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Contains(t, string(resp.Body), "hello")
}

func TestAzureClient_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("server overloaded"))
	}))
	defer srv.Close()

	c := NewAzureClient(Config{Endpoint: srv.URL, APIKey: "k"})
	resp, err := c.Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "server overloaded", string(resp.Body))
}

func TestAzureClient_Validate(t *testing.T) {
	assert.ErrorIs(t, NewAzureClient(Config{Endpoint: "http://x"}).Validate(), ErrMissingAPIKey)
	assert.ErrorIs(t, NewAzureClient(Config{APIKey: "k"}).Validate(), ErrMissingEndpoint)
	assert.NoError(t, NewAzureClient(Config{APIKey: "k", Endpoint: "http://x"}).Validate())
}

func TestAzureClient_TransportTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewAzureClient(Config{Endpoint: srv.URL, APIKey: "k", Timeout: 20 * time.Millisecond})
	_, err := c.Complete(context.Background(), nil)
	assert.Error(t, err)
}

func TestAzureClient_ZeroTemperatureIsSent(t *testing.T) {
	var got gjson.Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got = gjson.GetBytes(raw, "temperature")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	zero := 0.0
	c := NewAzureClient(Config{Endpoint: srv.URL, APIKey: "k", Temperature: &zero})
	_, err := c.Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, got.Exists())
	assert.Equal(t, 0.0, got.Float())
}
