package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/entity"
	"github.com/octobees/outreach/api/internal/repository"
)

type stubCompanies struct {
	companies []entity.Company
	byDomain  map[string]*entity.Company
	listErr   error
}

func (s *stubCompanies) Upsert(_ context.Context, company *entity.Company) (*entity.Company, error) {
	return company, nil
}

func (s *stubCompanies) FindByDomain(_ context.Context, domain string) (*entity.Company, error) {
	if company, ok := s.byDomain[domain]; ok {
		return company, nil
	}
	return nil, repository.ErrCompanyNotFound
}

func (s *stubCompanies) List(context.Context) ([]entity.Company, error) {
	return s.companies, s.listErr
}

func (s *stubCompanies) RecordSearch(context.Context, *entity.SearchRecord) error {
	return nil
}

type stubSnapshots struct {
	contacts map[string][]entity.Contact
}

func (s *stubSnapshots) Load(_ context.Context, domain string) ([]entity.Contact, error) {
	return s.contacts[domain], nil
}

func (s *stubSnapshots) Save(context.Context, string, []entity.Contact) error {
	return nil
}

func TestCompaniesHandlerList(t *testing.T) {
	e := echo.New()
	handler := NewCompaniesHandler(&stubCompanies{companies: []entity.Company{
		{Domain: "acme.io", Name: "Acme"},
	}}, &stubSnapshots{})

	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data []entity.Company `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Domain != "acme.io" {
		t.Fatalf("unexpected companies: %+v", envelope.Data)
	}
}

func TestCompaniesHandlerListFailure(t *testing.T) {
	e := echo.New()
	handler := NewCompaniesHandler(&stubCompanies{listErr: errors.New("db down")}, &stubSnapshots{})

	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handler.List(c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCompaniesHandlerContacts(t *testing.T) {
	e := echo.New()
	companies := &stubCompanies{byDomain: map[string]*entity.Company{
		"acme.io": {Domain: "acme.io", Name: "Acme"},
	}}
	snapshots := &stubSnapshots{contacts: map[string][]entity.Contact{
		"acme.io": {{FirstName: "Ada", LastName: "Lovelace"}},
	}}
	handler := NewCompaniesHandler(companies, snapshots)

	req := httptest.NewRequest(http.MethodGet, "/companies/ACME.io/contacts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("domain")
	c.SetParamValues("ACME.io")

	if err := handler.Contacts(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Contacts []entity.Contact `json:"contacts"`
			Total    int              `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Total != 1 || len(envelope.Data.Contacts) != 1 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestCompaniesHandlerContactsUnknownDomain(t *testing.T) {
	e := echo.New()
	handler := NewCompaniesHandler(&stubCompanies{}, &stubSnapshots{})

	req := httptest.NewRequest(http.MethodGet, "/companies/nope.example/contacts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("domain")
	c.SetParamValues("nope.example")

	_ = handler.Contacts(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
