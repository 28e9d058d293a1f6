package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/draft"
	"github.com/octobees/outreach/api/internal/dto"
)

// DraftHandler exposes POST /draft.
type DraftHandler struct {
	generator draft.Generator
}

// NewDraftHandler constructs a draft handler.
func NewDraftHandler(generator draft.Generator) *DraftHandler {
	return &DraftHandler{generator: generator}
}

// Draft handles POST /draft requests.
func (h *DraftHandler) Draft(c echo.Context) error {
	var req dto.DraftRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if strings.TrimSpace(req.Contact.FirstName) == "" && strings.TrimSpace(req.Contact.LastName) == "" {
		return Error(c, http.StatusBadRequest, "contact name is required")
	}

	result, err := h.generator.Generate(c.Request().Context(), draft.Input{
		Contact:     req.Contact,
		UserContext: strings.TrimSpace(req.UserContext),
		JobLink:     strings.TrimSpace(req.JobLink),
	})
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}

	return Success(c, http.StatusOK, "draft generated", dto.DraftResponse{
		Subject: result.Subject,
		Body:    result.Body,
	})
}
