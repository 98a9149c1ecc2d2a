// Package memory is a process-local persistence backend. It enforces the same
// uniqueness rules as the Postgres schema and is used with DB_DRIVER=memory
// and as the unit of work in service tests.
package memory

import (
	"sync"

	"policfy-be/internal/entity"

	"github.com/google/uuid"
)

type applicationKey struct {
	userId   uuid.UUID
	policyId uuid.UUID
}

// Store holds all tables behind one lock, so every repository call is atomic.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]entity.User
	usersByEmail map[string]uuid.UUID

	policies map[uuid.UUID]entity.Policy

	applications       map[uuid.UUID]entity.Application
	applicationsByPair map[applicationKey]uuid.UUID
}

func NewStore() *Store {
	return &Store{
		users:              make(map[uuid.UUID]entity.User),
		usersByEmail:       make(map[string]uuid.UUID),
		policies:           make(map[uuid.UUID]entity.Policy),
		applications:       make(map[uuid.UUID]entity.Application),
		applicationsByPair: make(map[applicationKey]uuid.UUID),
	}
}
