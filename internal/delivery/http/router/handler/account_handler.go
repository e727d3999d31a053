// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"passport/internal/delivery/http/response"
	"passport/internal/domain/entity"
	"passport/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// registerRequest carries the registration form. Cross-field checks and email
// syntax are the engine's job so their precedence stays fixed; the tags only
// guard against missing fields.
type registerRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Pseudo          string `json:"pseudo" validate:"required"`
	Email           string `json:"email" validate:"required"`
	ConfirmEmail    string `json:"confirmEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type confirmRequest struct {
	Email string `json:"email" validate:"required"`
	Key   string `json:"key" validate:"required"`
}

type updateRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Pseudo          string `json:"pseudo" validate:"required"`
	Email           string `json:"email" validate:"required"`
	ConfirmEmail    string `json:"confirmEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// userResponse is the outward shape of a user. Digest, salt and confirmation
// key never leave the service.
type userResponse struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Pseudo    string    `json:"pseudo"`
	Role      string    `json:"role"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.User) *userResponse {
	return &userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Pseudo:    user.Pseudo,
		Role:      user.Role.String(),
		Confirmed: user.Confirmed,
		CreatedAt: user.CreatedAt,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Pseudo:          req.Pseudo,
		Email:           req.Email,
		ConfirmEmail:    req.ConfirmEmail,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// A failed send never rolls the registration back; the caller learns
	// about it through the mailSent flag.
	mailSent := true
	if err := h.uc.SendConfirmation(c.Request().Context(), output.User, output.ConfirmationKey); err != nil {
		mailSent = false
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"user":     toUserResponse(output.User),
		"mailSent": mailSent,
	}, "Account registered successfully")
}

// Login handles the login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user), "Login successful")
}

// Confirm handles the confirmation key submission.
func (h *AccountHandler) Confirm(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid confirmation input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	matched, err := h.uc.ConfirmAccount(c.Request().Context(), req.Email, req.Key)
	if err != nil {
		return errors.WithStack(err)
	}
	if !matched {
		return response.BadRequest(c, "CONFIRMATION_KEY_MISMATCH", "Confirmation key does not match")
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email":     req.Email,
		"confirmed": true,
	}, "Account confirmed")
}

// Confirmed reports the confirmation state of an account.
func (h *AccountHandler) Confirmed(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return response.BadRequest(c, "INVALID_INPUT", "email query parameter is required")
	}

	confirmed, err := h.uc.IsConfirmed(c.Request().Context(), email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"email":     email,
		"confirmed": confirmed,
	}, "")
}

// Logout disconnects the active identity.
func (h *AccountHandler) Logout(c echo.Context) error {
	h.uc.Logout()

	return response.Success(c, http.StatusOK, nil, "Logged out")
}

// Update handles the profile rewrite request.
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), &usecase.UpdateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Pseudo:          req.Pseudo,
		Email:           req.Email,
		ConfirmEmail:    req.ConfirmEmail,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserResponse(user), "Profile updated")
}

// Delete removes an account by id.
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "id must be a positive integer")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted")
}

// ListMembers returns every member account.
func (h *AccountHandler) ListMembers(c echo.Context) error {
	users, err := h.uc.ListMembers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	members := make([]*userResponse, 0, len(users))
	for _, user := range users {
		members = append(members, toUserResponse(user))
	}

	return response.Success(c, http.StatusOK, members, "")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
