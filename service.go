package users

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserService implements the user CRUD surface over a UserStore
type UserService struct {
	store  UserStore
	logger Logger
}

// NewUserService returns a service bound to the given store
func NewUserService(store UserStore) *UserService {
	return &UserService{
		store:  store,
		logger: defLogger{},
	}
}

func (s *UserService) WithLogger(l Logger) *UserService {
	s.logger = l
	return s
}

// FindAll returns every user record. An empty store is reported as
// ErrNoUsersFound rather than an empty list.
func (s *UserService) FindAll(ctx context.Context) ([]*User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	if len(list) == 0 {
		return nil, ErrNoUsersFound
	}

	return list, nil
}

// FindByID returns the record or ErrUserNotFound
func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// Update applies a partial update and returns the updated record
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UpdateUserPayload) (*User, error) {
	return s.store.Update(ctx, id, patch)
}

// DeleteResult confirms a deletion and echoes the removed record
type DeleteResult struct {
	Message     string `json:"message"`
	DeletedUser *User  `json:"deletedUser"`
}

// Delete removes the record and returns a confirmation carrying it
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	user, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DeleteResult{
		Message:     "User Deleted Successfully",
		DeletedUser: user,
	}, nil
}
