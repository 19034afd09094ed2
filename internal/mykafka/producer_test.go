package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	var nilProducer *Producer
	for _, p := range []*Producer{nilProducer, {}, NewProducer(nil)} {
		assert.False(t, p.Enabled())
		require.NoError(t, p.PublishEvent(context.Background(), TopicAuthEvents, "1", NewEvent("user_logged_in", nil)))
		require.NoError(t, p.Close())
	}
}

func TestProducer_Configured(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"localhost:9092"})
	require.True(t, p.Enabled())
	assert.Equal(t, "localhost:9092", p.writer.Addr.String())
	assert.Empty(t, p.writer.Topic)
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	ev := NewEvent("user_created", map[string]any{"user_id": uint(3)})
	assert.Equal(t, "user_created", ev.Type)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, uint(3), ev.Data["user_id"])
}
