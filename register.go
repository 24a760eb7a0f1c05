package users

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// RegisterUserMessage carries the registration input. Password exists only
// for the duration of the call and is never stored or logged.
type RegisterUserMessage struct {
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UseHashid bool           `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler executes the registration workflow: uniqueness checks,
// password hashing, and persistence.
type RegisterUserHandler struct {
	store  UserStore
	cost   int
	logger Logger
}

// NewRegisterUserHandler returns a handler bound to the given store
func NewRegisterUserHandler(store UserStore) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:  store,
		cost:   DefaultPasswordCost,
		logger: defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(l Logger) *RegisterUserHandler {
	h.logger = l
	return h
}

// WithPasswordCost overrides the bcrypt work factor
func (h *RegisterUserHandler) WithPasswordCost(cost int) *RegisterUserHandler {
	h.cost = cost
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	username := getUsername(event.Username, event.Email)

	existing, err := h.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "username lookup failed")
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = h.store.GetByEmail(ctx, event.Email)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "email lookup failed")
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	hash, err := HashPasswordWithCost(event.Password, h.cost)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     username,
		Email:        event.Email,
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		PasswordHash: hash,
		Metadata:     event.Metadata,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}

	// The lookups above are a fast path; under concurrent registration the
	// store's unique constraints are the guarantee that holds.
	created, err := h.store.Create(ctx, user)
	if err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return created, nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
