package users

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// RouteRegistrar captures the router methods used by the controllers.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

type AuthControllerRoutes struct {
	Login    string
	Register string
}

// AuthController handles registration and login JSON routes
type AuthController struct {
	Debug        bool
	Logger       Logger
	Store        UserStore
	Routes       *AuthControllerRoutes
	Auther       Authenticator
	PasswordCost int
	ErrorHandler func(router.Context, error) error
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuthStore(store UserStore) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Store = store
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithRegistrationPasswordCost(cost int) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.PasswordCost = cost
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: RenderError,
		PasswordCost: DefaultPasswordCost,
		Routes: &AuthControllerRoutes{
			Login:    "/auth/login",
			Register: "/auth/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Store == nil {
		panic("Missing UserStore in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterRoutes mounts the auth routes
func (a *AuthController) RegisterRoutes(app RouteRegistrar) {
	app.Post(a.Routes.Register, a.RegistrationCreate)
	app.Post(a.Routes.Login, a.LoginPost)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse carries the bearer token issued on a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"error":      "Invalid login payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		a.Logger.Debug("login payload: %s", print.MaybePrettyJSON(payload))
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Debug("login rejected for %s: %v", payload.Email, err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}

// RegistrationCreatePayload is the registration request body
type RegistrationCreatePayload struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload: %v", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"error":      "Invalid registration payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		a.Logger.Debug("register payload: %s", print.MaybePrettyJSON(payload))
	}

	req := RegisterUserMessage{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	}

	registerUser := NewRegisterUserHandler(a.Store).
		WithLogger(a.Logger).
		WithPasswordCost(a.PasswordCost)

	record, err := registerUser.Execute(ctx.Context(), req)
	if err != nil {
		a.Logger.Error("register user: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    record,
	})
}

// UsersController handles the user CRUD JSON routes
type UsersController struct {
	Debug        bool
	Logger       Logger
	Service      *UserService
	Protected    router.MiddlewareFunc
	ErrorHandler func(router.Context, error) error
}

type UsersControllerOption func(*UsersController) *UsersController

func WithUsersLogger(logger Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithUsersService(service *UserService) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Service = service
		return c
	}
}

func WithProtectedRoute(mw router.MiddlewareFunc) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Protected = mw
		return c
	}
}

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger:       defLogger{},
		ErrorHandler: RenderError,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing UserService in users controller...")
	}

	if c.Protected == nil {
		panic("Missing protected route middleware in users controller...")
	}

	return c
}

// RegisterRoutes mounts the user routes. Listing stays public, record access
// requires a bearer token.
func (u *UsersController) RegisterRoutes(app RouteRegistrar) {
	app.Get("/users", u.List)
	app.Get("/users/:id", u.Show, u.Protected)
	app.Put("/users/:id", u.Update, u.Protected)
	app.Delete("/users/:id", u.Delete, u.Protected)
}

func (u *UsersController) List(ctx router.Context) error {
	records, err := u.Service.FindAll(ctx.Context())
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, records)
}

func (u *UsersController) Show(ctx router.Context) error {
	id, err := u.recordID(ctx)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	record, err := u.Service.FindByID(ctx.Context(), id)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, record)
}

func (u *UsersController) Update(ctx router.Context) error {
	id, err := u.recordID(ctx)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	payload := UpdateUserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		u.Logger.Error("update user parse payload: %v", err)
		return u.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if u.Debug {
		u.Logger.Debug("update payload: %s", print.MaybePrettyJSON(payload))
	}

	record, err := u.Service.Update(ctx.Context(), id, payload)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, record)
}

func (u *UsersController) Delete(ctx router.Context) error {
	id, err := u.recordID(ctx)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	result, err := u.Service.Delete(ctx.Context(), id)
	if err != nil {
		return u.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

func (u *UsersController) recordID(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id", "")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryBadInput, "Invalid user id").
			WithCode(errors.CodeBadRequest).
			WithTextCode("INVALID_USER_ID")
	}
	return id, nil
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field->message map
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
