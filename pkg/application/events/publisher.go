package events

import (
	"context"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	pkgEvents "policfy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	// Topic is the in-process bus topic every lifecycle event goes to.
	Topic = "application.events"

	TypeSubmitted     = "APPLICATION_SUBMITTED"
	TypeStatusChanged = "APPLICATION_STATUS_CHANGED"
	TypeCancelled     = "APPLICATION_CANCELLED"
)

// Publisher emits application lifecycle events. Publishing is best effort:
// failures are logged, never returned.
type Publisher interface {
	PublishSubmitted(ctx context.Context, app *entity.Application)
	PublishStatusChanged(ctx context.Context, app *entity.Application, previous entity.ApplicationStatus)
	PublishCancelled(ctx context.Context, app *entity.Application)
}

// Sink is an external event stream such as the NATS publisher.
type Sink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// BusPublisher fans events out to the watermill bus and, when set, an external sink.
type BusPublisher struct {
	bus    message.Publisher
	sink   Sink
	logger logger.ILogger
}

// NewBusPublisher builds a publisher. sink may be nil when no external stream is configured.
func NewBusPublisher(bus message.Publisher, sink Sink, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{
		bus:    bus,
		sink:   sink,
		logger: logger,
	}
}

func applicationData(app *entity.Application) map[string]interface{} {
	return map[string]interface{}{
		"application_id": app.Id.String(),
		"user_id":        app.UserId.String(),
		"policy_id":      app.PolicyId.String(),
		"status":         string(app.Status),
		"entity_type":    "application",
		"entity_id":      app.Id.String(),
	}
}

func (p *BusPublisher) PublishSubmitted(ctx context.Context, app *entity.Application) {
	p.publish(ctx, pkgEvents.New(TypeSubmitted, applicationData(app)))
}

func (p *BusPublisher) PublishStatusChanged(ctx context.Context, app *entity.Application, previous entity.ApplicationStatus) {
	data := applicationData(app)
	data["previous_status"] = string(previous)
	p.publish(ctx, pkgEvents.New(TypeStatusChanged, data))
}

func (p *BusPublisher) PublishCancelled(ctx context.Context, app *entity.Application) {
	p.publish(ctx, pkgEvents.New(TypeCancelled, applicationData(app)))
}

func (p *BusPublisher) publish(ctx context.Context, evt pkgEvents.BaseEvent) {
	if p.bus != nil {
		payload, err := pkgEvents.Encode(evt)
		if err != nil {
			p.logger.Error("APPLICATION", "Failed to encode "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
			return
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set("event_type", evt.Type)
		if err := p.bus.Publish(Topic, msg); err != nil {
			p.logger.Error("APPLICATION", "Failed to publish "+evt.Type+" to bus", map[string]interface{}{"error": err.Error()})
		}
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, evt); err != nil {
			p.logger.Error("APPLICATION", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
		}
	}
}
