package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"flightchat/internal/chat"
	"flightchat/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrRequestInFlight = errors.New("conversation: a request is already in flight")
	ErrEmptyMessage    = errors.New("conversation: message is empty")
	ErrUnknownFilter   = errors.New("conversation: unknown suggested filter")
)

// Sender delivers one envelope to the chat endpoint.
type Sender interface {
	Send(ctx context.Context, env *chat.SearchRequestEnvelope) (*chat.SearchResponseEnvelope, error)
}

// State is a copy of the conversation as the user sees it.
type State struct {
	SessionID string
	Form      chat.FormData
	Messages  []chat.ChatMessage
	Flights   []chat.Flight
	Filters   []chat.SuggestedFilter
}

// Outcome describes what one successful exchange changed.
type Outcome struct {
	Reply          string
	FlightCount    int
	AppliedFields  []string
	RejectedFields []string
}

// Manager owns the client side of a session: the transcript, the form and
// the latest results. Only one request may be outstanding at a time, and
// a failed request leaves the state exactly as it was.
type Manager struct {
	sender Sender
	logger logger.Client

	mu       sync.Mutex
	state    State
	inFlight bool
}

func NewManager(sender Sender, log logger.Client) *Manager {
	return &Manager{
		sender: sender,
		logger: log,
		state: State{
			SessionID: uuid.NewString(),
			Messages:  []chat.ChatMessage{},
		},
	}
}

// SetForm replaces the form after validating it.
func (m *Manager) SetForm(form chat.FormData) error {
	if err := chat.ValidateFormData(form); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrRequestInFlight
	}
	m.state.Form = form
	return nil
}

// SubmitSearch issues a fresh structured search from the current form.
func (m *Manager) SubmitSearch(ctx context.Context) (*Outcome, error) {
	return m.exchange(ctx, chat.TriggerSearch, "")
}

// SendMessage continues the conversation with a user message. The message
// joins the transcript only once the server answers.
func (m *Manager) SendMessage(ctx context.Context, text string) (*Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return m.exchange(ctx, chat.TriggerChat, text)
}

// ApplyFilter sends a suggested filter's prompt as a chat message. ref is
// either the filter id or its 1-based position in the current list. Any
// listed filter can be applied, including ones offered for an empty result.
func (m *Manager) ApplyFilter(ctx context.Context, ref string) (*Outcome, error) {
	m.mu.Lock()
	filter, ok := findFilter(m.state.Filters, ref)
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, ref)
	}
	return m.SendMessage(ctx, filter.Prompt)
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// InFlight reports whether a request is outstanding.
func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

func (m *Manager) exchange(ctx context.Context, trigger chat.Trigger, userText string) (*Outcome, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	m.inFlight = true
	snapshot := m.state.clone()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	env := &chat.SearchRequestEnvelope{
		SessionID: snapshot.SessionID,
		FormData:  snapshot.Form,
		Messages:  snapshot.Messages,
		Trigger:   trigger,
	}
	if userText != "" {
		env.Messages = append(env.Messages, chat.ChatMessage{Role: chat.RoleUser, Content: userText})
	}
	if trigger == chat.TriggerChat {
		env.Flights = snapshot.Flights
	}

	resp, err := m.sender.Send(ctx, env)
	if err != nil {
		m.logger.Warn("chat request failed",
			logger.Field{Key: "session_id", Value: snapshot.SessionID},
			logger.Field{Key: "trigger", Value: string(trigger)},
			logger.Err(err),
		)
		return nil, err
	}

	merged, applied, rejected := MergeFormUpdates(snapshot.Form, resp.FormUpdates)

	next := State{
		SessionID: snapshot.SessionID,
		Form:      merged,
		Messages:  resp.Messages,
		Flights:   resp.Flights,
		Filters:   resp.SuggestedFilters,
	}
	if len(next.Messages) == 0 {
		next.Messages = env.Messages
	}

	m.mu.Lock()
	m.state = next.clone()
	m.mu.Unlock()

	for _, field := range rejected {
		m.logger.Info("form update rejected",
			logger.Field{Key: "session_id", Value: snapshot.SessionID},
			logger.Field{Key: "field", Value: field},
		)
	}

	return &Outcome{
		Reply:          lastAssistant(next.Messages),
		FlightCount:    len(next.Flights),
		AppliedFields:  applied,
		RejectedFields: rejected,
	}, nil
}

func findFilter(filters []chat.SuggestedFilter, ref string) (chat.SuggestedFilter, bool) {
	for _, f := range filters {
		if f.ID == ref {
			return f, true
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(filters) {
		return filters[n-1], true
	}
	return chat.SuggestedFilter{}, false
}

func lastAssistant(messages []chat.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}

func (s State) clone() State {
	out := s
	out.Messages = append([]chat.ChatMessage{}, s.Messages...)
	out.Flights = append([]chat.Flight(nil), s.Flights...)
	out.Filters = append([]chat.SuggestedFilter(nil), s.Filters...)
	if s.Form.ReturnDate != nil {
		rd := *s.Form.ReturnDate
		out.Form.ReturnDate = &rd
	}
	return out
}
