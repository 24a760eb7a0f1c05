package users

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed session payload: subject id, username, issued-at, and
// expiry.
type Claims struct {
	jwt.RegisteredClaims
	UID  string `json:"uid,omitempty"`
	Name string `json:"username,omitempty"`
}

// Subject returns the subject claim
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *Claims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Username returns the username claim
func (c *Claims) Username() string {
	return c.Name
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *Claims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
