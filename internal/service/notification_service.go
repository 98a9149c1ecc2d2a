package service

import (
	"context"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/mailer"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	appEvents "policfy-be/pkg/application/events"
	"policfy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// UpdatePusher delivers live updates to a user's open connections.
type UpdatePusher interface {
	Send(userId uuid.UUID, update interface{})
}

// NotificationService tells applicants about their applications: a live push
// for every lifecycle event and an e-mail on submission and status changes.
// It consumes the in-process application event bus.
type NotificationService struct {
	subscriber message.Subscriber
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	live       UpdatePusher
	logger     logger.ILogger
}

// NewNotificationService builds the consumer. live may be nil.
func NewNotificationService(subscriber message.Subscriber, uowFactory unitofwork.RepositoryFactory, mailer mailer.IEmailService, live UpdatePusher, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		mailer:     mailer,
		live:       live,
		logger:     log,
	}
}

// Start subscribes and processes messages until ctx is cancelled.
func (s *NotificationService) Start(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, appEvents.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	s.logger.Info("NOTIFICATION", "Notification service started, listening to "+appEvents.Topic, nil)
	return nil
}

func (s *NotificationService) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.Decode(msg.Payload)
	if err != nil {
		s.logger.Error("NOTIFICATION", "Dropping undecodable message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	if err := s.handleEvent(ctx, evt); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to process "+evt.Type, map[string]interface{}{
			"error":    err.Error(),
			"event_id": evt.Id,
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

// handleEvent returns an error only for failures worth redelivering.
func (s *NotificationService) handleEvent(ctx context.Context, evt events.BaseEvent) error {
	userId, errUser := uuid.Parse(stringField(evt.Data, "user_id"))
	policyId, errPolicy := uuid.Parse(stringField(evt.Data, "policy_id"))
	if errUser != nil || errPolicy != nil {
		s.logger.Warn("NOTIFICATION", "Event without usable ids", map[string]interface{}{"event_id": evt.Id})
		return nil
	}

	switch evt.Type {
	case appEvents.TypeCancelled:
		s.push(evt, userId, policyId)
		return nil
	case appEvents.TypeSubmitted, appEvents.TypeStatusChanged:
	default:
		return nil
	}

	// Lookups run before the push so a redelivered message is pushed once.
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}

	policyTitle := entity.UnknownPolicyTitle
	policy, err := uow.PolicyRepository().FindOne(ctx, specification.ByID{ID: policyId})
	if err != nil {
		return err
	}
	if policy != nil {
		policyTitle = policy.Title
	}

	s.push(evt, userId, policyId)
	if user == nil {
		return nil
	}

	switch evt.Type {
	case appEvents.TypeSubmitted:
		err = s.mailer.SendApplicationReceived(user.Email, user.Name, policyTitle)
	case appEvents.TypeStatusChanged:
		err = s.mailer.SendApplicationStatus(user.Email, user.Name, policyTitle, stringField(evt.Data, "status"))
	}

	// Mail failures are not retried.
	if err != nil {
		s.logger.Warn("NOTIFICATION", "Failed to send e-mail", map[string]interface{}{
			"error":    err.Error(),
			"event_id": evt.Id,
			"to":       user.Email,
		})
		return nil
	}

	s.logger.Info("NOTIFICATION", "Sent "+evt.Type+" e-mail", map[string]interface{}{"user_id": user.Id.String()})
	return nil
}

func (s *NotificationService) push(evt events.BaseEvent, userId, policyId uuid.UUID) {
	if s.live == nil {
		return
	}

	applicationId, _ := uuid.Parse(stringField(evt.Data, "application_id"))
	s.live.Send(userId, dto.ApplicationUpdate{
		ApplicationId: applicationId,
		PolicyId:      policyId,
		Event:         evt.Type,
		Status:        stringField(evt.Data, "status"),
		At:            evt.OccurredAt,
	})
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}
