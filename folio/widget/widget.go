package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"folio/folio/utils/jsonutils"
	"folio/folio/utils/types"
)

type State int

const (
	Closed State = iota
	Open
	Sending
	Idle
	LimitReached
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Sending:
		return "sending"
	case Idle:
		return "idle"
	case LimitReached:
		return "limit_reached"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	Greeting       = "Hi there! I'm Aakash's virtual assistant. How can I help you learn more about him today?"
	TroubleMessage = "I'm having trouble connecting right now. Please try again later."
)

var (
	ErrNotOpen      = errors.New("chat is not open")
	ErrBusy         = errors.New("a question is already being sent")
	ErrLimitReached = errors.New("question limit reached")
	ErrEmptyInput   = errors.New("message is empty")
	ErrUnavailable  = errors.New("chat service unavailable")
)

// Response is what the chat endpoint answered.
type Response struct {
	Status    int
	Body      []byte
	SessionID string
}

// Transport delivers a transcript to the chat endpoint.
type Transport interface {
	Send(ctx context.Context, sessionID string, messages []types.Message) (*Response, error)
}

// Widget is the client side of a chat session:
//
//	Closed -> Open -> Sending <-> Idle -> LimitReached
//
// LimitReached is terminal for the widget's lifetime.
type Widget struct {
	mu        sync.Mutex
	transport Transport
	state     State
	sessionID string
	remaining int
	messages  []types.Message
	onChange  func(from, to State)
}

type Option func(*Widget)

// WithSession reuses a session id from an earlier run.
func WithSession(id string) Option {
	return func(w *Widget) {
		w.sessionID = id
	}
}

// OnChange is called after every state transition, without the lock held.
func OnChange(fn func(from, to State)) Option {
	return func(w *Widget) {
		w.onChange = fn
	}
}

func New(t Transport, opts ...Option) *Widget {
	w := &Widget{
		transport: t,
		state:     Closed,
		remaining: -1,
		messages:  []types.Message{{Role: types.RoleAssistant, Content: Greeting}},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) SessionID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessionID
}

// Remaining is the server's last questionsRemaining, or -1 before any answer.
func (w *Widget) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remaining
}

func (w *Widget) Messages() []types.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]types.Message(nil), w.messages...)
}

// transition must be called with the lock held; it returns the notifier to run
// after unlocking.
func (w *Widget) transition(to State) func() {
	from := w.state
	w.state = to
	if w.onChange == nil || from == to {
		return func() {}
	}
	fn := w.onChange
	return func() { fn(from, to) }
}

func (w *Widget) Open() {
	w.mu.Lock()
	notify := func() {}
	if w.state == Closed {
		notify = w.transition(Open)
	}
	w.mu.Unlock()
	notify()
}

// Close hides an open widget. A widget that reached its limit stays there.
func (w *Widget) Close() {
	w.mu.Lock()
	notify := func() {}
	if w.state == Open || w.state == Idle {
		notify = w.transition(Closed)
	}
	w.mu.Unlock()
	notify()
}

// Send submits one question and returns the assistant message appended to
// the transcript. On failure the returned message is what the visitor sees
// and the error says why.
func (w *Widget) Send(ctx context.Context, input string) (types.Message, error) {
	input = strings.TrimSpace(input)

	w.mu.Lock()
	switch w.state {
	case Closed:
		w.mu.Unlock()
		return types.Message{}, ErrNotOpen
	case Sending:
		w.mu.Unlock()
		return types.Message{}, ErrBusy
	case LimitReached:
		w.mu.Unlock()
		return types.Message{}, ErrLimitReached
	}
	if input == "" {
		w.mu.Unlock()
		return types.Message{}, ErrEmptyInput
	}
	w.messages = append(w.messages, types.Message{Role: types.RoleUser, Content: input})
	transcript := make([]types.Message, 0, len(w.messages))
	for _, m := range w.messages {
		if m.Role != types.RoleSystem {
			transcript = append(transcript, m)
		}
	}
	sessionID := w.sessionID
	notify := w.transition(Sending)
	w.mu.Unlock()
	notify()

	resp, err := w.transport.Send(ctx, sessionID, transcript)

	w.mu.Lock()
	reply, next, outErr := w.interpret(resp, err)
	w.messages = append(w.messages, reply)
	notify = w.transition(next)
	w.mu.Unlock()
	notify()
	return reply, outErr
}

// interpret runs with the lock held.
func (w *Widget) interpret(resp *Response, err error) (types.Message, State, error) {
	trouble := types.Message{Role: types.RoleAssistant, Content: TroubleMessage}
	if err != nil {
		return trouble, Idle, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.SessionID != "" {
		w.sessionID = resp.SessionID
	}

	switch {
	case resp.Status == 429:
		w.remaining = 0
		if id := jsonutils.GetString(resp.Body, "sessionId"); id != "" {
			w.sessionID = id
		}
		text := jsonutils.GetString(resp.Body, "message")
		if text == "" {
			text = TroubleMessage
		}
		return types.Message{Role: types.RoleAssistant, Content: text}, LimitReached, ErrLimitReached
	case resp.Status < 200 || resp.Status >= 300:
		return trouble, Idle, fmt.Errorf("%w: status %d", ErrUnavailable, resp.Status)
	}

	role, content, ok := jsonutils.FirstChoiceMessage(resp.Body)
	if !ok {
		return trouble, Idle, fmt.Errorf("%w: invalid response format", ErrUnavailable)
	}
	if role == "" {
		role = types.RoleAssistant
	}
	if id := jsonutils.GetString(resp.Body, "session.id"); id != "" {
		w.sessionID = id
	}
	next := Idle
	if n, ok := jsonutils.GetInt(resp.Body, "session.questionsRemaining"); ok {
		w.remaining = n
		if n <= 0 {
			next = LimitReached
		}
	}
	return types.Message{Role: role, Content: content}, next, nil
}
