package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/dto"
	"github.com/octobees/outreach/api/internal/entity"
)

// Enricher reveals contact details for discovered people.
type Enricher interface {
	Enrich(ctx context.Context, companyDomain string, contacts []entity.Contact) ([]entity.Contact, int, error)
}

// EnrichHandler exposes POST /enrich.
type EnrichHandler struct {
	enricher Enricher
}

// NewEnrichHandler constructs an enrich handler.
func NewEnrichHandler(enricher Enricher) *EnrichHandler {
	return &EnrichHandler{enricher: enricher}
}

// Enrich handles POST /enrich requests.
func (h *EnrichHandler) Enrich(c echo.Context) error {
	var req dto.EnrichRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.CompanyDomain = strings.ToLower(strings.TrimSpace(req.CompanyDomain))
	if req.CompanyDomain == "" && len(req.Contacts) == 0 {
		return Error(c, http.StatusBadRequest, "company_domain or contacts are required")
	}

	contacts, enriched, err := h.enricher.Enrich(c.Request().Context(), req.CompanyDomain, req.Contacts)
	if err != nil {
		return directoryError(c, err)
	}

	return Success(c, http.StatusOK, "enrichment completed", dto.EnrichResponse{
		Contacts:      contacts,
		TotalEnriched: enriched,
	})
}
