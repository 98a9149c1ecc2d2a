package memory

import (
	"context"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/specification"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) contract.UserRepository {
	return &userRepository{store: store}
}

var userAccessors = accessors[entity.User]{
	id:        func(u *entity.User) uuid.UUID { return u.Id },
	createdAt: func(u *entity.User) time.Time { return u.CreatedAt },
	match: func(u *entity.User, spec specification.Specification) (bool, error) {
		switch s := spec.(type) {
		case specification.ByEmail:
			return u.Email == s.Email, nil
		case specification.ByRole:
			return string(u.Role) == s.Role, nil
		}
		return false, unsupported(spec)
	},
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.usersByEmail[user.Email]; taken {
		return apperror.New(apperror.ErrConflict, "User already exists")
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.store.users[user.Id] = *user
	r.store.usersByEmail[user.Email] = user.Id
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if owner, taken := r.store.usersByEmail[user.Email]; taken && owner != user.Id {
		return apperror.New(apperror.ErrConflict, "Email already in use")
	}

	if previous, ok := r.store.users[user.Id]; ok {
		delete(r.store.usersByEmail, previous.Email)
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.Id] = *user
	r.store.usersByEmail[user.Email] = user.Id
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if u, ok := r.store.users[id]; ok {
		delete(r.store.usersByEmail, u.Email)
		delete(r.store.users, id)
	}
	return nil
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *userRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		row := u
		rows = append(rows, &row)
	}
	return selectRows(rows, userAccessors, specs)
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
