package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"policfy-be/internal/dto"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/memory"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	appEvents "policfy-be/pkg/application/events"
	"policfy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, name, policy, status string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendApplicationReceived(to, name, policy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, name: name, policy: policy})
	return nil
}

func (m *fakeMailer) SendApplicationStatus(to, name, policy, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, name: name, policy: policy, status: status})
	return nil
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakePusher struct {
	mu      sync.Mutex
	updates []dto.ApplicationUpdate
}

func (p *fakePusher) Send(userId uuid.UUID, update interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update.(dto.ApplicationUpdate))
}

func (p *fakePusher) all() []dto.ApplicationUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]dto.ApplicationUpdate(nil), p.updates...)
}

func TestNotificationService_MailsOnStatusChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := memory.NewRepositoryFactory(memory.NewStore())
	uow := factory.NewUnitOfWork(ctx)

	user := &entity.User{Id: uuid.New(), Name: "Carol", Email: "carol@example.com", Role: entity.UserRoleUser}
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	policy := &entity.Policy{Id: uuid.New(), Title: "Travel Lite", Category: entity.PolicyCategoryTravel}
	require.NoError(t, uow.PolicyRepository().Create(ctx, policy))

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	mail := &fakeMailer{}
	live := &fakePusher{}
	notifier := NewNotificationService(bus, factory, mail, live, logger.NewNop())
	require.NoError(t, notifier.Start(ctx))

	publisher := appEvents.NewBusPublisher(bus, nil, logger.NewNop())
	app := &entity.Application{
		Id:       uuid.New(),
		UserId:   user.Id,
		PolicyId: policy.Id,
		Status:   entity.ApplicationStatusApproved,
	}
	publisher.PublishStatusChanged(ctx, app, entity.ApplicationStatusPending)
	publisher.PublishCancelled(ctx, app)

	require.Eventually(t, func() bool { return len(mail.all()) == 1 }, 2*time.Second, 10*time.Millisecond)

	got := mail.all()[0]
	assert.Equal(t, "carol@example.com", got.to)
	assert.Equal(t, "Travel Lite", got.policy)
	assert.Equal(t, "approved", got.status)

	require.Eventually(t, func() bool { return len(live.all()) == 2 }, 2*time.Second, 10*time.Millisecond)
	updates := live.all()
	assert.Equal(t, appEvents.TypeStatusChanged, updates[0].Event)
	assert.Equal(t, "approved", updates[0].Status)
	assert.Equal(t, app.Id, updates[0].ApplicationId)
	assert.Equal(t, appEvents.TypeCancelled, updates[1].Event)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, mail.all(), 1)
}

type failingUsers struct {
	contract.UserRepository
	err error
}

func (r failingUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return nil, r.err
}

type failingUsersUnitOfWork struct {
	unitofwork.UnitOfWork
	users contract.UserRepository
}

func (u failingUsersUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

type failingUsersFactory struct {
	unitofwork.RepositoryFactory
	err error
}

func (f *failingUsersFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	inner := f.RepositoryFactory.NewUnitOfWork(ctx)
	if f.err == nil {
		return inner
	}
	return failingUsersUnitOfWork{UnitOfWork: inner, users: failingUsers{UserRepository: inner.UserRepository(), err: f.err}}
}

func TestNotificationService_PushesOnlyAfterLookups(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore()
	factory := &failingUsersFactory{RepositoryFactory: memory.NewRepositoryFactory(store), err: errors.New("connection refused")}
	uow := factory.RepositoryFactory.NewUnitOfWork(ctx)

	user := &entity.User{Id: uuid.New(), Name: "Dan", Email: "dan@example.com", Role: entity.UserRoleUser}
	require.NoError(t, uow.UserRepository().Create(ctx, user))

	mail := &fakeMailer{}
	live := &fakePusher{}
	notifier := NewNotificationService(nil, factory, mail, live, logger.NewNop())

	evt := events.New(appEvents.TypeSubmitted, map[string]interface{}{
		"application_id": uuid.NewString(),
		"user_id":        user.Id.String(),
		"policy_id":      uuid.NewString(),
		"status":         "pending",
	})

	// Every failed attempt is redelivered; none of them may reach the user.
	for i := 0; i < 3; i++ {
		assert.Error(t, notifier.handleEvent(ctx, evt))
	}
	assert.Empty(t, live.all())
	assert.Empty(t, mail.all())

	factory.err = nil
	require.NoError(t, notifier.handleEvent(ctx, evt))

	updates := live.all()
	require.Len(t, updates, 1)
	assert.Equal(t, appEvents.TypeSubmitted, updates[0].Event)
	require.Len(t, mail.all(), 1)
	assert.Equal(t, entity.UnknownPolicyTitle, mail.all()[0].policy)
}
