package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/repository"
)

// CompaniesHandler exposes the company catalogue and stored contacts.
type CompaniesHandler struct {
	companies repository.CompaniesRepository
	snapshots repository.SnapshotStore
}

// NewCompaniesHandler constructs a companies handler.
func NewCompaniesHandler(companies repository.CompaniesRepository, snapshots repository.SnapshotStore) *CompaniesHandler {
	return &CompaniesHandler{companies: companies, snapshots: snapshots}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	companies, err := h.companies.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// Contacts handles GET /companies/:domain/contacts requests, returning the
// persisted snapshot for one company.
func (h *CompaniesHandler) Contacts(c echo.Context) error {
	domain := strings.ToLower(strings.TrimSpace(c.Param("domain")))
	if domain == "" {
		return Error(c, http.StatusBadRequest, "domain is required")
	}

	ctx := c.Request().Context()
	company, err := h.companies.FindByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return Error(c, http.StatusNotFound, "company not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load company")
	}

	contacts, err := h.snapshots.Load(ctx, domain)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load contacts")
	}

	return Success(c, http.StatusOK, "contacts retrieved", map[string]any{
		"company":  company,
		"contacts": contacts,
		"total":    len(contacts),
	})
}
