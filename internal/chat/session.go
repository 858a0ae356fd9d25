package chat

import (
	"context"
	"errors"
	"io"

	"github.com/davidhbaek/termchat/internal/llm"
	"github.com/davidhbaek/termchat/internal/wire"
)

// Session owns the ordered conversation history for one process lifetime.
// Turns alternate user/assistant starting with user, except that a failed
// exchange leaves its user turn behind with no assistant reply. The full
// retained sequence is resent on every provider call.
type Session struct {
	client       llm.Client
	systemPrompt string
	maxTurns     int
	history      []wire.Message
	pending      []wire.Content
}

// NewSession binds a session to a provider client. maxTurns limits how many
// user turns are retained; zero means unbounded.
func NewSession(client llm.Client, systemPrompt string, maxTurns int) *Session {
	return &Session{
		client:       client,
		systemPrompt: systemPrompt,
		maxTurns:     maxTurns,
	}
}

// Attach queues content blocks to ride along with the next user turn.
func (s *Session) Attach(content ...wire.Content) {
	s.pending = append(s.pending, content...)
}

// User appends a user turn, sends the retained history to the provider, and
// on success appends and returns the assistant turn. On failure the user turn
// stays in history and no retry happens: a resend would duplicate the turn.
func (s *Session) User(ctx context.Context, text string) (string, error) {
	content := append(s.pending, &wire.Text{Type: "text", Text: text})
	s.pending = nil

	s.history = append(s.history, wire.Message{Role: wire.RoleUser, Content: content})
	s.trim()

	rsp, err := s.client.SendMessage(ctx, s.history, s.systemPrompt)
	if err != nil {
		return "", err
	}

	answer, err := s.client.ReadBody(rsp.Body)
	if closer, ok := rsp.Body.(io.Closer); ok {
		closer.Close()
	}
	if err != nil {
		// Stamp the HTTP status onto the typed error; a non-JSON body from
		// the backend (a gateway error page, say) still surfaces as a
		// ProviderError rather than a bare decode failure.
		var providerErr *wire.ProviderError
		if errors.As(err, &providerErr) {
			providerErr.StatusCode = rsp.StatusCode
			return "", providerErr
		}
		return "", &wire.ProviderError{StatusCode: rsp.StatusCode, Message: err.Error(), Err: err}
	}

	s.history = append(s.history, wire.TextMessage(wire.RoleAssistant, answer))

	return answer, nil
}

// History returns the retained conversation turns.
func (s *Session) History() []wire.Message {
	return s.history
}

// trim drops the oldest turns so at most maxTurns user turns remain and the
// window starts on a user turn. Failed exchanges leave unanswered user turns
// behind, so roles are walked rather than assumed to pair up; the newest user
// turn is always retained.
func (s *Session) trim() {
	if s.maxTurns <= 0 {
		return
	}

	users := 0
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role != wire.RoleUser {
			continue
		}

		users++
		if users == s.maxTurns {
			s.history = s.history[i:]
			return
		}
	}
}
