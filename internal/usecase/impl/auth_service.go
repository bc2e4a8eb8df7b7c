// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"
	"medash/internal/infra/backend"
	"medash/internal/infra/querycache"
	"medash/internal/usecase"

	"github.com/pkg/errors"
)

// authBackend is the slice of the backend surface the auth service calls.
// backend.AuthAPI satisfies it.
type authBackend interface {
	Register(ctx context.Context, req backend.RegisterRequest) (string, error)
	Login(ctx context.Context, req backend.LoginRequest) (entity.AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	RequestRole(ctx context.Context, req backend.RoleRequest) (entity.AccessRequest, error)
}

// sessionStore is the slice of the session surface the auth service drives.
// session.Store satisfies it.
type sessionStore interface {
	Login(token string, user *entity.UserIdentity)
	Logout()
	Identity(ctx context.Context) (entity.UserIdentity, error)
}

// authService implements the AuthUsecase interface.
type authService struct {
	auth    authBackend
	session sessionStore
	cache   *querycache.Store
	logger  *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(
	auth authBackend,
	session sessionStore,
	cache *querycache.Store,
	logger *slog.Logger,
) usecase.AuthUsecase {
	return &authService{
		auth:    auth,
		session: session,
		cache:   cache,
		logger:  logger,
	}
}

// Login exchanges credentials for a token and installs the new session.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	result, err := srv.auth.Login(ctx, backend.LoginRequest{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	// A fresh session must not see data cached under the previous one.
	srv.cache.Clear()
	srv.session.Login(result.Token, result.User)
	srv.logger.Info("user logged in", slog.String("email", input.Email))

	return &usecase.LoginOutput{Token: result.Token, User: result.User}, nil
}

// Signup registers a new account after checking the password confirmation
// locally, so a mismatch never reaches the backend.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) (string, error) {
	if input.Password != input.ConfirmPassword {
		return "", apierror.NewValidation("passwords do not match")
	}

	msg, err := srv.auth.Register(ctx, backend.RegisterRequest{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return "", errors.Wrap(err, "signup failed")
	}

	return msg, nil
}

// VerifyEmail redeems an email verification token.
func (srv *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apierror.NewValidation("verification token is required")
	}

	return srv.auth.VerifyEmail(ctx, token)
}

// ResendVerification triggers a fresh verification email.
func (srv *authService) ResendVerification(ctx context.Context, email string) (string, error) {
	return srv.auth.ResendVerification(ctx, email)
}

// ForgotPassword starts the password reset flow.
func (srv *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return srv.auth.ForgotPassword(ctx, email)
}

// ResetPassword redeems a reset token against a new password.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) (string, error) {
	if input.NewPassword != input.ConfirmPassword {
		return "", apierror.NewValidation("passwords do not match")
	}

	return srv.auth.ResetPassword(ctx, input.Token, input.NewPassword)
}

// Logout drops the session and everything cached under it.
func (srv *authService) Logout(ctx context.Context) error {
	srv.session.Logout()
	srv.cache.Clear()
	srv.logger.Info("user logged out")

	return nil
}

// CurrentUser resolves the identity behind the active session.
func (srv *authService) CurrentUser(ctx context.Context) (entity.UserIdentity, error) {
	return srv.session.Identity(ctx)
}

// RequestAccess files a role request for the current account.
func (srv *authService) RequestAccess(ctx context.Context, input *usecase.RequestAccessInput) (entity.AccessRequest, error) {
	if !input.RequestedRole.IsAssigned() {
		return entity.AccessRequest{}, apierror.NewValidation("requested role is not assignable")
	}

	result, err := srv.auth.RequestRole(ctx, backend.RoleRequest{
		RequestedRole: input.RequestedRole,
		Reason:        input.Reason,
	})
	if err != nil {
		return entity.AccessRequest{}, errors.Wrap(err, "failed to request access")
	}

	return result, nil
}
