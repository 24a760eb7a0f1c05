package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	users "github.com/goliatone/go-users"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun-backed persistence layer for user records. The unique
// indexes on username and email are the authoritative guard against duplicate
// registrations; callers may pre-check but cannot rely on it.
type Users struct {
	repo repository.Repository[*users.User]
	db   *bun.DB
}

var _ users.UserStore = (*Users)(nil)

func NewUsers(db *bun.DB) *Users {
	repo := repository.NewRepository[*users.User](db, repository.ModelHandlers[*users.User]{
		NewRecord: func() *users.User { return &users.User{} },
		GetID: func(u *users.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *users.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string { return "email" },
	})

	return &Users{
		repo: repo,
		db:   db,
	}
}

func (s *Users) Create(ctx context.Context, record *users.User) (*users.User, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := s.repo.CreateTx(ctx, s.db, record)
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return created, nil
}

func (s *Users) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, users.ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to get user")
	}

	return record, nil
}

func (s *Users) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return s.getByColumn(ctx, "username", username)
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return s.getByColumn(ctx, "email", email)
}

// getByColumn returns (nil, nil) when no record matches; a miss here is a
// legitimate answer, not a failure.
func (s *Users) getByColumn(ctx context.Context, column, value string) (*users.User, error) {
	record := &users.User{}

	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows || repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user")
	}

	return record, nil
}

func (s *Users) Update(ctx context.Context, id uuid.UUID, patch users.UpdateUserPayload) (*users.User, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsZero() {
		return record, nil
	}

	patch.Apply(record)

	now := time.Now()
	record.UpdatedAt = &now

	columns := append(patch.Columns(), "updated_at")

	_, err = s.db.NewUpdate().
		Model(record).
		Column(columns...).
		WherePK().
		Exec(ctx)

	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	return record, nil
}

func (s *Users) Delete(ctx context.Context, id uuid.UUID) (*users.User, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// hard delete: the row is gone and its username/email become free again
	_, err = s.db.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	return record, nil
}

func (s *Users) List(ctx context.Context) ([]*users.User, error) {
	records := []*users.User{}

	err := s.db.NewSelect().
		Model(&records).
		Order("usr.created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	return records, nil
}

// uniqueViolation maps storage-level unique constraint errors onto the
// registration conflicts. Covers sqlite and postgres message shapes.
func uniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "duplicate key value") {
		return nil
	}

	if strings.Contains(msg, "email") {
		return users.ErrEmailRegistered
	}

	return users.ErrUsernameTaken
}
