package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/model"
)

type userMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[bson.ObjectID]*model.User
	byEmail map[string]bson.ObjectID
}

// NewUserMemoryRepository creates a process-local UserRepository. It enforces the same
// email uniqueness as the Mongo index.
func NewUserMemoryRepository() UserRepository {
	return &userMemoryRepository{
		byID:    make(map[bson.ObjectID]*model.User),
		byEmail: make(map[string]bson.ObjectID),
	}
}

func (r *userMemoryRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, ErrUserAlreadyExists
	}

	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID

	return user, nil
}

func (r *userMemoryRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[objectID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *userMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}

	return r.GetUser(ctx, id.Hex())
}
