package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/directory"
	"github.com/octobees/outreach/api/internal/dto"
	"github.com/octobees/outreach/api/internal/service"
)

// Discoverer runs the contact discovery flow for one company.
type Discoverer interface {
	Discover(ctx context.Context, company string, roles []string, limit int) (*dto.DiscoverResponse, error)
}

// DiscoverHandler exposes POST /discover.
type DiscoverHandler struct {
	discoverer Discoverer
}

// NewDiscoverHandler constructs a discover handler.
func NewDiscoverHandler(discoverer Discoverer) *DiscoverHandler {
	return &DiscoverHandler{discoverer: discoverer}
}

const defaultDiscoverLimit = 25

// Discover handles POST /discover requests.
func (h *DiscoverHandler) Discover(c echo.Context) error {
	var req dto.DiscoverRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Company = strings.TrimSpace(req.Company)
	if req.Company == "" {
		return Error(c, http.StatusBadRequest, "company is required")
	}
	if req.Limit <= 0 {
		req.Limit = defaultDiscoverLimit
	}

	for _, role := range req.Roles {
		if !knownRole(role) {
			return Error(c, http.StatusBadRequest, "unknown role "+role+", supported: "+strings.Join(directory.KnownRoles(), ", "))
		}
	}

	result, err := h.discoverer.Discover(c.Request().Context(), req.Company, req.Roles, req.Limit)
	if err != nil {
		return directoryError(c, err)
	}

	return Success(c, http.StatusOK, "contacts discovered", result)
}

func knownRole(role string) bool {
	lowered := strings.ToLower(strings.TrimSpace(role))
	for _, known := range directory.KnownRoles() {
		if lowered == known {
			return true
		}
	}
	return false
}

// directoryError maps the directory failure taxonomy onto HTTP statuses.
func directoryError(c echo.Context, err error) error {
	var rateErr *directory.RateLimitError
	switch {
	case errors.Is(err, service.ErrCompanyUnresolved), errors.Is(err, directory.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, directory.ErrAuthentication):
		return Error(c, http.StatusBadGateway, "directory credentials rejected")
	case errors.Is(err, directory.ErrInsufficientCredits):
		return Error(c, http.StatusPaymentRequired, "directory credits exhausted")
	case errors.As(err, &rateErr):
		return Error(c, http.StatusTooManyRequests, rateErr.Error())
	default:
		return Error(c, http.StatusInternalServerError, err.Error())
	}
}
