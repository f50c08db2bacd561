package messaging

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eberrors "github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/kv"
)

func TestInbox(t *testing.T) {
	ctx := context.Background()
	in := NewInbox(kv.NewMemoryStore())
	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	in.now = func() time.Time { return at }

	msgs, err := in.Messages(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, in.SendPrivateMessage(ctx, "alice", "Event Reminder", "first"))
	require.NoError(t, in.SendPrivateMessage(ctx, "alice", "Event Reminder", "second"))
	require.NoError(t, in.SendPrivateMessage(ctx, "bob", "Hi", "other"))

	msgs, err = in.Messages(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, at, msgs[0].SentAt)

	msgs, err = in.Messages(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestInboxRejectsBadUsername(t *testing.T) {
	in := NewInbox(kv.NewMemoryStore())
	err := in.SendPrivateMessage(context.Background(), "a b", "s", "t")
	assert.True(t, eberrors.Is(err, eberrors.ErrCodeInvalidUsername))
}

func TestLogMessenger(t *testing.T) {
	var buf bytes.Buffer
	m := LogMessenger{Logger: log.New(&buf)}
	require.NoError(t, m.SendPrivateMessage(context.Background(), "alice", "Event Reminder", "hello"))
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), "Event Reminder")

	// Zero value discards.
	assert.NoError(t, LogMessenger{}.SendPrivateMessage(context.Background(), "a", "b", "c"))
}

type failing struct{}

func (failing) SendPrivateMessage(context.Context, string, string, string) error {
	return errors.New("down")
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	a := NewInbox(kv.NewMemoryStore())
	b := NewInbox(kv.NewMemoryStore())

	require.NoError(t, Multi{a, b}.SendPrivateMessage(ctx, "alice", "s", "t"))
	for _, in := range []*Inbox{a, b} {
		msgs, err := in.Messages(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, msgs, 1)
	}

	c := NewInbox(kv.NewMemoryStore())
	assert.Error(t, Multi{failing{}, c}.SendPrivateMessage(ctx, "alice", "s", "t"))
	msgs, err := c.Messages(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, msgs, "delivery stops at the first failure")
}
