package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fridgeraider/fridgeraider/internal/infrastructure/monitoring"
	"github.com/fridgeraider/fridgeraider/internal/ports/outbound"
)

func TestEventBus_DeliversToTopicHandlers(t *testing.T) {
	bus := NewEventBus(monitoring.NewMetricsCollector(zaptest.NewLogger(t)), zaptest.NewLogger(t))
	ctx := context.Background()

	var got []string
	require.NoError(t, bus.Subscribe(ctx, "pantry.inventory", func(ctx context.Context, m outbound.Message) error {
		got = append(got, "first:"+m.Type)
		return errors.New("handler failed")
	}))
	require.NoError(t, bus.Subscribe(ctx, "pantry.inventory", func(ctx context.Context, m outbound.Message) error {
		got = append(got, "second:"+m.Type)
		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx, "preference", func(ctx context.Context, m outbound.Message) error {
		got = append(got, "other")
		return nil
	}))

	err := bus.Publish(ctx, "pantry.inventory", outbound.Message{Type: "pantry.item.added"})

	require.NoError(t, err)
	assert.Equal(t, []string{"first:pantry.item.added", "second:pantry.item.added"}, got)
}

func TestEventBus_Closed(t *testing.T) {
	bus := NewEventBus(nil, zaptest.NewLogger(t))
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), "t", outbound.Message{}), ErrBusClosed)
	assert.ErrorIs(t, bus.Subscribe(context.Background(), "t", nil), ErrBusClosed)
}

func TestKafkaMirror_PublishesLocallyAndToKafka(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"name":"Milk"}` {
			return errors.New("unexpected payload")
		}
		return nil
	})

	local := NewEventBus(nil, zaptest.NewLogger(t))
	delivered := 0
	require.NoError(t, local.Subscribe(context.Background(), "pantry.inventory", func(ctx context.Context, m outbound.Message) error {
		delivered++
		return nil
	}))
	mirror := NewKafkaMirror(local, producer, "fridgeraider.", zaptest.NewLogger(t))

	err := mirror.Publish(context.Background(), "pantry.inventory", outbound.Message{
		ID:        "1",
		Type:      "pantry.item.added",
		Payload:   []byte(`{"name":"Milk"}`),
		Timestamp: time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	require.NoError(t, mirror.Close())
}

func TestKafkaMirror_KafkaFailureIsNotFatal(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	mirror := NewKafkaMirror(NewEventBus(nil, zaptest.NewLogger(t)), producer, "", zaptest.NewLogger(t))

	err := mirror.Publish(context.Background(), "pantry.inventory", outbound.Message{Type: "x"})

	assert.NoError(t, err)
	require.NoError(t, mirror.Close())
}

func TestToProducerMessage(t *testing.T) {
	msg := toProducerMessage("fridgeraider.preference", outbound.Message{
		ID:       "abc",
		Type:     "preference.updated",
		Payload:  []byte(`{}`),
		Metadata: map[string]string{"source": "fridgeraider"},
	})

	assert.Equal(t, "fridgeraider.preference", msg.Topic)
	assert.Len(t, msg.Headers, 3)
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "preference.updated", string(key))
}
