package users_test

import (
	"context"
	"sync"

	users "github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory UserStore. It enforces the same username and email
// uniqueness guarantees a real store does.
type memStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*users.User

	// optional failure injection
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		records: map[uuid.UUID]*users.User{},
	}
}

func (s *memStore) Create(ctx context.Context, record *users.User) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, u := range s.records {
		if u.Username == record.Username {
			return nil, users.ErrUsernameTaken
		}
		if u.Email == record.Email {
			return nil, users.ErrEmailRegistered
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	clone := *record
	s.records[record.ID] = &clone

	return record, nil
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	record, ok := s.records[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}

	clone := *record
	return &clone, nil
}

func (s *memStore) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, u := range s.records {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}

	return nil, nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	for _, u := range s.records {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, nil
}

func (s *memStore) Update(ctx context.Context, id uuid.UUID, patch users.UpdateUserPayload) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	record, ok := s.records[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}

	patch.Apply(record)

	clone := *record
	return &clone, nil
}

func (s *memStore) Delete(ctx context.Context, id uuid.UUID) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	record, ok := s.records[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}

	delete(s.records, id)

	return record, nil
}

func (s *memStore) List(ctx context.Context) ([]*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}

	out := make([]*users.User, 0, len(s.records))
	for _, u := range s.records {
		clone := *u
		out = append(out, &clone)
	}

	return out, nil
}

var _ users.UserStore = (*memStore)(nil)

// testConfig implements users.Config
type testConfig struct {
	SigningKey      string
	TokenExpiration int
	ContextKey      string
	TokenLookup     string
	AuthScheme      string
	Issuer          string
	Audience        []string
}

func newTestConfig() *testConfig {
	return &testConfig{
		SigningKey:      "test-signing-key",
		TokenExpiration: 1,
		ContextKey:      "session",
		TokenLookup:     "header:Authorization",
		AuthScheme:      "Bearer",
		Issuer:          "go-users-test",
		Audience:        []string{"go-users-test"},
	}
}

func (c *testConfig) GetSigningKey() string { return c.SigningKey }
func (c *testConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c *testConfig) GetContextKey() string { return c.ContextKey }
func (c *testConfig) GetTokenLookup() string { return c.TokenLookup }
func (c *testConfig) GetAuthScheme() string { return c.AuthScheme }
func (c *testConfig) GetIssuer() string { return c.Issuer }
func (c *testConfig) GetAudience() []string { return c.Audience }

// MockIdentityProvider implements users.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (users.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(users.Identity), args.Error(1)
}

// seedUser registers a user through the real workflow and returns the record
func seedUser(store users.UserStore, username, email, password string) (*users.User, error) {
	handler := users.NewRegisterUserHandler(store)
	return handler.Execute(context.Background(), users.RegisterUserMessage{
		Username: username,
		Email:    email,
		Password: password,
	})
}
