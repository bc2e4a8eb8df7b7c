package handler

import (
	"log/slog"
	"net/http"

	"medash/internal/delivery/http/response"
	"medash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccessRequestHandler holds dependencies for the review-queue handlers.
type AccessRequestHandler struct {
	uc     usecase.AccessReviewUsecase
	logger *slog.Logger
}

// NewAccessRequestHandler is the constructor for AccessRequestHandler,
// injected by Fx.
func NewAccessRequestHandler(uc usecase.AccessReviewUsecase, logger *slog.Logger) *AccessRequestHandler {
	return &AccessRequestHandler{
		uc:     uc,
		logger: logger,
	}
}

// List returns all access requests, newest first.
func (h *AccessRequestHandler) List(c echo.Context) error {
	result, err := h.uc.ListAccessRequests(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Access requests retrieved")
}

// Pending returns requests still awaiting review.
func (h *AccessRequestHandler) Pending(c echo.Context) error {
	result, err := h.uc.PendingAccessRequests(c.Request().Context(), pageRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Pending access requests retrieved")
}

// Approve grants the requested role.
func (h *AccessRequestHandler) Approve(c echo.Context) error {
	result, err := h.uc.ApproveAccessRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Access request approved")
}

// Reject declines the requested role.
func (h *AccessRequestHandler) Reject(c echo.Context) error {
	result, err := h.uc.RejectAccessRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Access request rejected")
}
