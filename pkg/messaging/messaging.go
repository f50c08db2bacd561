// Package messaging delivers private messages to board users.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/kv"
)

// Messenger sends a private message to one user.
type Messenger interface {
	SendPrivateMessage(ctx context.Context, to, subject, text string) error
}

// Message is one delivered private message.
type Message struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sentAt"`
}

// inboxPrefix prefixes the kv key holding a user's messages.
const inboxPrefix = "inbox:"

// Inbox stores messages per user in a kv.Store, newest last.
type Inbox struct {
	store kv.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewInbox returns an inbox on store.
func NewInbox(store kv.Store) *Inbox {
	return &Inbox{store: store, now: time.Now}
}

// SendPrivateMessage implements Messenger.
func (in *Inbox) SendPrivateMessage(ctx context.Context, to, subject, text string) error {
	if err := errors.ValidateUsername(to); err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()

	msgs, err := in.Messages(ctx, to)
	if err != nil {
		return err
	}
	msgs = append(msgs, Message{To: to, Subject: subject, Text: text, SentAt: in.now().UTC()})
	b, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode inbox: %w", err)
	}
	if err := in.store.Set(ctx, inboxPrefix+to, string(b)); err != nil {
		return errors.Wrap(errors.ErrCodeMessaging, err, "deliver message to %s", to)
	}
	return nil
}

// Messages returns user's messages, oldest first.
func (in *Inbox) Messages(ctx context.Context, user string) ([]Message, error) {
	raw, ok, err := in.store.Get(ctx, inboxPrefix+user)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load inbox of %s", user)
	}
	if !ok || raw == "" {
		return []Message{}, nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return nil, fmt.Errorf("decode inbox: %w", err)
	}
	return msgs, nil
}

// LogMessenger writes every message to a logger instead of delivering it.
type LogMessenger struct {
	Logger *log.Logger
}

// SendPrivateMessage implements Messenger.
func (m LogMessenger) SendPrivateMessage(_ context.Context, to, subject, text string) error {
	logger := m.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Info("private message", "to", to, "subject", subject, "text", text)
	return nil
}

// Multi delivers each message to every Messenger in turn and stops at the
// first failure.
type Multi []Messenger

// SendPrivateMessage implements Messenger.
func (ms Multi) SendPrivateMessage(ctx context.Context, to, subject, text string) error {
	for _, m := range ms {
		if err := m.SendPrivateMessage(ctx, to, subject, text); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Messenger = (*Inbox)(nil)
	_ Messenger = LogMessenger{}
	_ Messenger = Multi(nil)
)
