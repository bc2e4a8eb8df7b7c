package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"medash/internal/domain/entity"
)

// AuthAPI maps the auth and access-request endpoint family onto typed
// calls. Each method forwards one endpoint through the client; no caching,
// no branching business logic.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI is the constructor for AuthAPI.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

// RegisterRequest is the signup payload forwarded to the backend.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RoleRequest asks for a role to be assigned to the current account.
type RoleRequest struct {
	RequestedRole entity.Role `json:"requestedRole"`
	Reason        string      `json:"reason,omitempty"`
}

// Register creates an account and returns the backend's confirmation message.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var msg string
	err := a.client.Post(ctx, "/auth/register", req, &msg)

	return msg, err
}

// Login exchanges credentials for a bearer token.
func (a *AuthAPI) Login(ctx context.Context, req LoginRequest) (entity.AuthResult, error) {
	var result entity.AuthResult
	err := a.client.Post(ctx, "/auth/login", req, &result)

	return result, err
}

// VerifyEmail redeems an email verification token.
func (a *AuthAPI) VerifyEmail(ctx context.Context, token string) (string, error) {
	var msg string
	err := a.client.Get(ctx, "/auth/verify?token="+url.QueryEscape(token), &msg)

	return msg, err
}

// ResendVerification triggers a fresh verification email.
func (a *AuthAPI) ResendVerification(ctx context.Context, email string) (string, error) {
	var msg string
	err := a.client.Post(ctx, "/auth/resend-verification?email="+url.QueryEscape(email), nil, &msg)

	return msg, err
}

// ForgotPassword starts the password reset flow.
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	var msg string
	err := a.client.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, &msg)

	return msg, err
}

// ResetPassword redeems a reset token against a new password.
func (a *AuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var msg string
	body := map[string]string{"token": token, "newPassword": newPassword}
	err := a.client.Post(ctx, "/auth/reset-password", body, &msg)

	return msg, err
}

// Profile resolves the identity behind the current bearer token.
func (a *AuthAPI) Profile(ctx context.Context) (entity.UserIdentity, error) {
	var user entity.UserIdentity
	err := a.client.Get(ctx, "/users/profile", &user)

	return user, err
}

// RequestRole files an access request for the current account.
func (a *AuthAPI) RequestRole(ctx context.Context, req RoleRequest) (entity.AccessRequest, error) {
	var result entity.AccessRequest
	err := a.client.Post(ctx, "/users/request/role", req, &result)

	return result, err
}

// AccessRequests lists all access requests, newest first by default.
func (a *AuthAPI) AccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error) {
	if page.Sort == "" {
		page.Sort = "requestedAt,desc"
	}
	q := url.Values{
		"page": {strconv.Itoa(page.Page)},
		"size": {strconv.Itoa(page.Size)},
		"sort": {page.Sort},
	}

	var result entity.Page[entity.AccessRequest]
	err := a.client.Get(ctx, "/access-requests"+queryString(q), &result)

	return result, err
}

// PendingAccessRequests lists only requests still awaiting review.
func (a *AuthAPI) PendingAccessRequests(ctx context.Context, page entity.PageRequest) (entity.Page[entity.AccessRequest], error) {
	q := url.Values{
		"page": {strconv.Itoa(page.Page)},
		"size": {strconv.Itoa(page.Size)},
	}

	var result entity.Page[entity.AccessRequest]
	err := a.client.Get(ctx, "/access-requests/pending"+queryString(q), &result)

	return result, err
}

// ApproveAccessRequest grants the requested role.
func (a *AuthAPI) ApproveAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error) {
	var result entity.AccessRequest
	err := a.client.Post(ctx, fmt.Sprintf("/access-requests/%s/approve", requestID), nil, &result)

	return result, err
}

// RejectAccessRequest declines the requested role.
func (a *AuthAPI) RejectAccessRequest(ctx context.Context, requestID string) (entity.AccessRequest, error) {
	var result entity.AccessRequest
	err := a.client.Post(ctx, fmt.Sprintf("/access-requests/%s/reject", requestID), nil, &result)

	return result, err
}
