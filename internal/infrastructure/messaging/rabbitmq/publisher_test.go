package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func newTestPublisher(ch channel) (*Publisher, chan amqp.Confirmation, chan amqp.Return) {
	confirms := make(chan amqp.Confirmation, 1)
	returns := make(chan amqp.Return, 1)
	return &Publisher{
		exchange:  DefaultExchange,
		ch:        ch,
		confirmCh: confirms,
		returnCh:  returns,
	}, confirms, returns
}

func TestPublishEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps_envelope_message_id", func(t *testing.T) {
		fc := &fakeChannel{}
		p, confirms, _ := newTestPublisher(fc)
		confirms <- amqp.Confirmation{Ack: true}

		err := p.PublishEvent(ctx, "reaction.created", map[string]any{"message_id": "m-1", "payload": map[string]string{"video_id": "vid1"}})
		require.NoError(t, err)
		require.Len(t, fc.published, 1)
		assert.Equal(t, "m-1", fc.published[0].MessageId)
		assert.Equal(t, "reaction.created", fc.keys[0])

		var body map[string]any
		require.NoError(t, json.Unmarshal(fc.published[0].Body, &body))
		assert.Equal(t, "m-1", body["message_id"])
	})

	t.Run("generates_message_id", func(t *testing.T) {
		fc := &fakeChannel{}
		p, _, _ := newTestPublisher(fc)

		require.NoError(t, p.PublishEvent(ctx, "reaction.created", []string{"x"}))
		assert.NotEmpty(t, fc.published[0].MessageId)
	})

	t.Run("nack_is_error", func(t *testing.T) {
		p, confirms, _ := newTestPublisher(&fakeChannel{})
		confirms <- amqp.Confirmation{Ack: false}
		require.EqualError(t, p.PublishEvent(ctx, "reaction.created", 1), "publish nack")
	})

	t.Run("unroutable_is_error", func(t *testing.T) {
		p, _, returns := newTestPublisher(&fakeChannel{})
		returns <- amqp.Return{RoutingKey: "reaction.created"}
		require.EqualError(t, p.PublishEvent(ctx, "reaction.created", 1), "NO_ROUTE: reaction.created")
	})

	t.Run("channel_error", func(t *testing.T) {
		p, _, _ := newTestPublisher(&fakeChannel{err: errors.New("closed")})
		require.Error(t, p.PublishEvent(ctx, "reaction.created", 1))
	})

	t.Run("missing_routing_key", func(t *testing.T) {
		p, _, _ := newTestPublisher(&fakeChannel{})
		require.Error(t, p.PublishEvent(ctx, " ", 1))
	})

	t.Run("closed_publisher", func(t *testing.T) {
		p, _, _ := newTestPublisher(&fakeChannel{})
		require.NoError(t, p.Close())
		require.EqualError(t, p.PublishEvent(ctx, "reaction.created", 1), "publisher channel not ready")
	})
}
