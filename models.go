package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record. The password hash is stored but never
// serialized into a response body.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string         `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string         `bun:"email,notnull,unique" json:"email,omitempty"`
	FirstName     string         `bun:"first_name" json:"first_name,omitempty"`
	LastName      string         `bun:"last_name" json:"last_name,omitempty"`
	PasswordHash  string         `bun:"password_hash,notnull" json:"-"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// UpdateUserPayload carries the mutable fields of a user record. Nil fields
// are left untouched by Update.
type UpdateUserPayload struct {
	Username  *string        `form:"username" json:"username,omitempty"`
	Email     *string        `form:"email" json:"email,omitempty"`
	FirstName *string        `form:"first_name" json:"first_name,omitempty"`
	LastName  *string        `form:"last_name" json:"last_name,omitempty"`
	Metadata  map[string]any `form:"metadata" json:"metadata,omitempty"`
}

// IsZero reports whether the payload would change nothing
func (p UpdateUserPayload) IsZero() bool {
	return p.Username == nil &&
		p.Email == nil &&
		p.FirstName == nil &&
		p.LastName == nil &&
		p.Metadata == nil
}

// Columns lists the storage columns the payload touches
func (p UpdateUserPayload) Columns() []string {
	cols := []string{}
	if p.Username != nil {
		cols = append(cols, "username")
	}
	if p.Email != nil {
		cols = append(cols, "email")
	}
	if p.FirstName != nil {
		cols = append(cols, "first_name")
	}
	if p.LastName != nil {
		cols = append(cols, "last_name")
	}
	if p.Metadata != nil {
		cols = append(cols, "metadata")
	}
	return cols
}

// Apply copies the non-nil fields onto the record
func (p UpdateUserPayload) Apply(u *User) *User {
	if u == nil {
		return nil
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Metadata != nil {
		for k, v := range p.Metadata {
			u.AddMetadata(k, v)
		}
	}
	return u
}
