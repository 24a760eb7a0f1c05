package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Session = &SessionObject{}

// SessionObject is the decoded view of a valid session token
type SessionObject struct {
	UserID         string     `json:"user_id,omitempty"`
	Username       string     `json:"username,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetUsername() string {
	return s.Username
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpirationDate
}

func (s SessionObject) String() string {
	issuedAt := "<nil>"
	if s.IssuedAt != nil {
		issuedAt = s.IssuedAt.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"user=%s username=%s aud=%v iss=%s iat=%s",
		s.UserID,
		s.Username,
		s.Audience,
		s.Issuer,
		issuedAt,
	)
}

// sessionFromClaims creates a SessionObject from decoded token claims
func sessionFromClaims(claims *Claims) (*SessionObject, error) {
	if claims == nil {
		return nil, ErrTokenInvalid
	}

	var audience []string
	for _, aud := range claims.RegisteredClaims.Audience {
		audience = append(audience, aud)
	}

	issuedAt := claims.Issued()
	expiresAt := claims.Expires()

	return &SessionObject{
		UserID:         claims.UserID(),
		Username:       claims.Username(),
		Issuer:         claims.RegisteredClaims.Issuer,
		Audience:       audience,
		IssuedAt:       &issuedAt,
		ExpirationDate: &expiresAt,
	}, nil
}
