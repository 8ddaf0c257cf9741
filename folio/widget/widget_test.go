package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"folio/folio/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	mu        sync.Mutex
	responses []*Response
	err       error
	sessions  []string
	sent      [][]types.Message
	block     chan struct{}
}

func (s *scriptedTransport) Send(ctx context.Context, sessionID string, messages []types.Message) (*Response, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	s.sent = append(s.sent, messages)
	if s.err != nil {
		return nil, s.err
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r, nil
}

func okResponse(session string, remaining int, text string) *Response {
	body := fmt.Sprintf(`{"choices":[{"message":{"role":"assistant","content":%q}}],"session":{"id":%q,"questionsRemaining":%d}}`, text, session, remaining)
	return &Response{Status: 200, Body: []byte(body), SessionID: session}
}

func TestWidget_FullSession(t *testing.T) {
	tr := &scriptedTransport{responses: []*Response{
		okResponse("s1", 2, "one"),
		okResponse("s1", 1, "two"),
		okResponse("s1", 0, "three"),
	}}
	var transitions []string
	w := New(tr, OnChange(func(from, to State) {
		transitions = append(transitions, from.String()+">"+to.String())
	}))
	ctx := context.Background()

	assert.Equal(t, Closed, w.State())
	_, err := w.Send(ctx, "hi")
	assert.ErrorIs(t, err, ErrNotOpen)

	w.Open()
	assert.Equal(t, Open, w.State())

	_, err = w.Send(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	msg, err := w.Send(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "one", msg.Content)
	assert.Equal(t, Idle, w.State())
	assert.Equal(t, 2, w.Remaining())
	assert.Equal(t, "s1", w.SessionID())

	_, err = w.Send(ctx, "q2")
	require.NoError(t, err)
	_, err = w.Send(ctx, "q3")
	require.NoError(t, err)
	assert.Equal(t, LimitReached, w.State())

	_, err = w.Send(ctx, "q4")
	assert.ErrorIs(t, err, ErrLimitReached)

	w.Close()
	assert.Equal(t, LimitReached, w.State())

	// first request has no session yet, later ones reuse it
	assert.Equal(t, []string{"", "s1", "s1"}, tr.sessions)
	// greeting + q1 on the first call
	require.Len(t, tr.sent[0], 2)
	assert.Equal(t, Greeting, tr.sent[0][0].Content)
	assert.Len(t, w.Messages(), 7)

	assert.Equal(t, []string{
		"closed>open",
		"open>sending", "sending>idle",
		"idle>sending", "sending>idle",
		"idle>sending", "sending>limit_reached",
	}, transitions)
}

func TestWidget_QuotaExceededResponse(t *testing.T) {
	tr := &scriptedTransport{responses: []*Response{{
		Status: 429,
		Body:   []byte(`{"error":"Question limit reached","message":"You've reached the limit of 3 questions per session.","sessionId":"old"}`),
	}}}
	w := New(tr, WithSession("old"))
	w.Open()

	msg, err := w.Send(context.Background(), "again?")
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Contains(t, msg.Content, "3 questions per session")
	assert.Equal(t, LimitReached, w.State())
	assert.Equal(t, 0, w.Remaining())
}

func TestWidget_Failures(t *testing.T) {
	cases := []struct {
		name string
		tr   *scriptedTransport
	}{
		{"transport error", &scriptedTransport{err: errors.New("refused")}},
		{"server error", &scriptedTransport{responses: []*Response{{Status: 500, Body: []byte(`{"error":"Internal server error"}`)}}}},
		{"bad payload", &scriptedTransport{responses: []*Response{{Status: 200, Body: []byte(`{"session":{"id":"x","questionsRemaining":2}}`)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New(tc.tr)
			w.Open()
			msg, err := w.Send(context.Background(), "hi")
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, TroubleMessage, msg.Content)
			assert.Equal(t, Idle, w.State())
		})
	}
}

func TestWidget_BusyWhileSending(t *testing.T) {
	tr := &scriptedTransport{responses: []*Response{okResponse("s1", 2, "ok")}, block: make(chan struct{})}
	w := New(tr)
	w.Open()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Send(context.Background(), "first")
	}()
	require.Eventually(t, func() bool { return w.State() == Sending }, time.Second, 5*time.Millisecond)

	_, err := w.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(tr.block)
	<-done
	assert.Equal(t, Idle, w.State())
}

func TestHTTPTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("Authorization"))
		var body struct {
			Messages []types.Message `json:"messages"`
		}
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &body))
		assert.Len(t, body.Messages, 1)
		w.Header().Set("X-Session-ID", "tok")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(srv.URL+"/", time.Second).Send(context.Background(), "tok", []types.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "tok", resp.SessionID)
}
