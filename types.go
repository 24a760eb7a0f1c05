package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds attributes decoded from a valid session token
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetUsername() string
	GetIssuer() string
	GetAudience() []string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
	SessionFromToken(token string) (Session, error)
}

// Identity is the hash-free view of an authenticated account
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// IdentityProvider ensures we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenIssuer signs session claims
type TokenIssuer interface {
	Issue(subjectID, username string) (string, error)
	SignClaims(claims *Claims) (string, error)
}

// TokenValidator validates raw tokens and decodes claims
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// TokenService issues and validates session tokens
type TokenService interface {
	TokenIssuer
	TokenValidator
}

// UserStore is the persistence contract the workflows depend on.
//
// GetByUsername and GetByEmail return (nil, nil) when no record matches; a
// legitimate miss is not an error. GetByID, Update, and Delete return a
// not-found error distinct from infrastructure failures. Username and email
// uniqueness is enforced by the store itself; workflow-level checks are a
// fast path only.
type UserStore interface {
	Create(ctx context.Context, record *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id uuid.UUID, patch UpdateUserPayload) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] USERS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] USERS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] USERS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] USERS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
