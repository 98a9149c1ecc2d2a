package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	pkgEvents "policfy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []pkgEvents.Event
	err    error
}

func (s *recordingSink) Publish(ctx context.Context, event pkgEvents.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func newApplication() *entity.Application {
	return &entity.Application{
		Id:       uuid.New(),
		UserId:   uuid.New(),
		PolicyId: uuid.New(),
		Status:   entity.ApplicationStatusApproved,
	}
}

func TestBusPublisher_FansOutToBusAndSink(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	messages, err := bus.Subscribe(context.Background(), Topic)
	require.NoError(t, err)

	sink := &recordingSink{}
	p := NewBusPublisher(bus, sink, logger.NewNop())

	app := newApplication()
	p.PublishStatusChanged(context.Background(), app, entity.ApplicationStatusPending)

	select {
	case msg := <-messages:
		evt, err := pkgEvents.Decode(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, TypeStatusChanged, evt.Type)
		assert.Equal(t, "pending", evt.Data["previous_status"])
		assert.Equal(t, "approved", evt.Data["status"])
		assert.Equal(t, TypeStatusChanged, msg.Metadata.Get("event_type"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("expected a message on the bus")
	}

	require.Len(t, sink.events, 1)
	assert.Equal(t, app.Id.String(), sink.events[0].Payload()["application_id"])
}

func TestBusPublisher_SinkFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("nats down")}
	p := NewBusPublisher(nil, sink, logger.NewNop())

	assert.NotPanics(t, func() {
		p.PublishSubmitted(context.Background(), newApplication())
		p.PublishCancelled(context.Background(), newApplication())
	})
	assert.Len(t, sink.events, 2)
}
