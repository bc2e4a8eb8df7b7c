// Package usecase defines the application's orchestration interfaces and
// their input/output shapes. Implementations live in the impl subpackage.
package usecase

import (
	"context"

	"medash/internal/domain/entity"
)

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput carries the signup form. Confirmation is checked locally
// before the backend is called.
type SignupInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// ResetPasswordInput redeems a reset token against a new password.
type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// RequestAccessInput files a role request for the current account.
type RequestAccessInput struct {
	RequestedRole entity.Role `json:"requestedRole" validate:"required"`
	Reason        string      `json:"reason"`
}

// LoginOutput is the resolved session after a successful login.
type LoginOutput struct {
	Token string               `json:"token"`
	User  *entity.UserIdentity `json:"user,omitempty"`
}

// AuthUsecase drives the session lifecycle and the access-request flow
// for the signed-in account.
type AuthUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Signup(ctx context.Context, input *SignupInput) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) (string, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (entity.UserIdentity, error)
	RequestAccess(ctx context.Context, input *RequestAccessInput) (entity.AccessRequest, error)
}

// AccessReviewUsecase lets reviewer roles work the access-request queue.
type AccessReviewUsecase interface {
	ListAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error)
	PendingAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error)
	ApproveAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error)
	RejectAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error)
}
