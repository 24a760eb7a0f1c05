package users

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Defaults for the bearer-token middleware
const (
	DefaultContextKey  = "session"
	DefaultAuthScheme  = "Bearer"
	DefaultTokenLookup = "header:Authorization"
)

// Middleware guards routes behind a valid bearer token
type Middleware interface {
	ProtectedRoute() router.MiddlewareFunc
}

// RouteAuthenticator adapts an Authenticator to JSON routes: it extracts the
// bearer token, validates it, and exposes the decoded session through the
// request locals.
type RouteAuthenticator struct {
	auth         Authenticator
	cfg          Config
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// NewHTTPAuthenticator returns a new RouteAuthenticator
func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("missing authenticator", errors.CategoryInternal)
	}

	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = RenderError

	return a, nil
}

func (a *RouteAuthenticator) WithLogger(l Logger) *RouteAuthenticator {
	a.Logger = l
	return a
}

// ProtectedRoute rejects requests without a valid bearer token. Missing,
// malformed, tampered, and expired tokens all produce the same 401 body.
func (a *RouteAuthenticator) ProtectedRoute() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := a.tokenFromRequest(ctx)
			if err != nil {
				return a.ErrorHandler(ctx, err)
			}

			session, err := a.auth.SessionFromToken(raw)
			if err != nil {
				a.Logger.Debug("ProtectedRoute token rejected: %v", err)
				return a.ErrorHandler(ctx, ErrTokenInvalid)
			}

			ctx.Locals(a.contextKey(), session)

			return next(ctx)
		}
	}
}

func (a *RouteAuthenticator) contextKey() string {
	if key := a.cfg.GetContextKey(); key != "" {
		return key
	}
	return DefaultContextKey
}

func (a *RouteAuthenticator) tokenFromRequest(ctx router.Context) (string, error) {
	scheme := a.cfg.GetAuthScheme()
	if scheme == "" {
		scheme = DefaultAuthScheme
	}

	header := ctx.Header(headerFromLookup(a.cfg.GetTokenLookup()))
	if header == "" {
		return "", ErrTokenInvalid
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", ErrTokenInvalid
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrTokenInvalid
	}

	return token, nil
}

// headerFromLookup resolves "header:<name>" lookups, defaulting to the
// Authorization header
func headerFromLookup(lookup string) string {
	if lookup == "" {
		lookup = DefaultTokenLookup
	}
	parts := strings.SplitN(lookup, ":", 2)
	if len(parts) == 2 && parts[0] == "header" && parts[1] != "" {
		return parts[1]
	}
	return "Authorization"
}

// SessionFromContext retrieves the session stored by ProtectedRoute
func SessionFromContext(c router.Context, key string) (Session, bool) {
	if key == "" {
		key = DefaultContextKey
	}

	session, ok := c.Locals(key).(Session)
	return session, ok
}

// RenderError writes a rich error as a JSON response with the mapped status.
// Unrecognized errors are wrapped as internal failures so store-layer issues
// never leak their details to the client.
func RenderError(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	body := map[string]any{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}

	return c.JSON(StatusFromError(richErr), body)
}

// StatusFromError maps an error category to its HTTP status
func StatusFromError(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return http.StatusUnauthorized
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	}

	if richErr.Code > 0 {
		return richErr.Code
	}

	return http.StatusInternalServerError
}
