package handler

import (
	"log/slog"
	"net/http"

	"medash/internal/delivery/http/response"
	"medash/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DonorHandler holds dependencies for the donor handlers.
type DonorHandler struct {
	uc     usecase.DonorUsecase
	logger *slog.Logger
}

// NewDonorHandler is the constructor for DonorHandler, injected by Fx.
func NewDonorHandler(uc usecase.DonorUsecase, logger *slog.Logger) *DonorHandler {
	return &DonorHandler{
		uc:     uc,
		logger: logger,
	}
}

// Partners lists implementing partner organizations.
func (h *DonorHandler) Partners(c echo.Context) error {
	result, err := h.uc.Partners(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Partners retrieved")
}

// Statistics aggregates program impact for the donor view.
func (h *DonorHandler) Statistics(c echo.Context) error {
	result, err := h.uc.Statistics(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "Statistics retrieved")
}
