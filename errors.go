package users

import (
	"github.com/goliatone/go-errors"
)

// ErrUsernameTaken rejects a registration whose username already exists
var ErrUsernameTaken = errors.New("username taken", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("USERNAME_TAKEN")

// ErrEmailRegistered rejects a registration whose email already exists
var ErrEmailRegistered = errors.New("email registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("EMAIL_REGISTERED")

// ErrInvalidCredentials is the uniform rejection for failed logins. An
// unknown email and a wrong password both produce this error.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrUserNotFound is returned for operations referencing a nonexistent id
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrNoUsersFound is returned by FindAll when the store holds no records
var ErrNoUsersFound = errors.New("no users found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("NO_USERS_FOUND")

// ErrTokenInvalid covers expired, tampered, and malformed session tokens.
// The three cases are indistinguishable to callers.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_TOKEN")

// ErrNoEmptyString is the error for empty password input
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// IsConflict will check for duplicate username/email rejections
func IsConflict(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryConflict
}

// IsUnauthorized will check for authentication rejections
func IsUnauthorized(err error) bool {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == errors.CategoryAuth || rich.Category == errors.CategoryAuthz
}

// IsNotFound will check for missing record errors
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}
