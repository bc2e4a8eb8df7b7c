// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"medash/internal/delivery/http/response"
	"medash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for session and account handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Signup handles the account registration request.
func (h *AuthHandler) Signup(c echo.Context) error {
	var input *usecase.SignupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid signup input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	msg, err := h.uc.Signup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]string{"message": msg}, "Account created")
}

// VerifyEmail redeems the verification token from the email link.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	msg, err := h.uc.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": msg}, "Email verified")
}

// ResendVerification triggers a fresh verification email.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	msg, err := h.uc.ResendVerification(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": msg}, "Verification email sent")
}

// ForgotPassword starts the password reset flow.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var input struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid email input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	msg, err := h.uc.ForgotPassword(c.Request().Context(), input.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": msg}, "Reset email sent")
}

// ResetPassword redeems a reset token against a new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input *usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid reset input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	msg, err := h.uc.ResetPassword(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": msg}, "Password reset")
}

// Logout drops the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the identity behind the active session.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := h.uc.CurrentUser(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, identity, "Profile retrieved")
}

// RequestAccess files a role request for the current account.
func (h *AuthHandler) RequestAccess(c echo.Context) error {
	var input *usecase.RequestAccessInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid access request input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	result, err := h.uc.RequestAccess(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, result, "Access request submitted")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
