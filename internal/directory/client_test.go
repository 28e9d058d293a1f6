package directory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test-key", WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	var waits []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return client, &waits
}

func TestSearchPeopleRequiresTarget(t *testing.T) {
	client := NewClient("test-key")
	if _, err := client.SearchPeople(context.Background(), SearchFilters{}); err == nil {
		t.Fatalf("expected error without organization id or domain")
	}
}

func TestSearchPeopleClampsPageSize(t *testing.T) {
	var got peopleSearchRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("X-Api-Key"); key != "test-key" {
			t.Errorf("expected api key header, got %q", key)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(PageResult{})
	})

	_, err := client.SearchPeople(context.Background(), SearchFilters{Domain: "acme.io", PerPage: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PerPage != maxPageSize {
		t.Fatalf("expected per_page clamped to %d, got %d", maxPageSize, got.PerPage)
	}
	if len(got.OrganizationDomains) != 1 || got.OrganizationDomains[0] != "acme.io" {
		t.Fatalf("expected domain filter, got %+v", got.OrganizationDomains)
	}
}

func TestSearchPeoplePrefersOrganizationID(t *testing.T) {
	var got peopleSearchRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(PageResult{})
	})

	_, err := client.SearchPeople(context.Background(), SearchFilters{OrganizationID: "org-1", Domain: "acme.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.OrganizationIDs) != 1 || got.OrganizationIDs[0] != "org-1" {
		t.Fatalf("expected organization id filter, got %+v", got.OrganizationIDs)
	}
	if len(got.OrganizationDomains) != 0 {
		t.Fatalf("expected no domain filter when org id is set, got %+v", got.OrganizationDomains)
	}
}

func TestClientErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		headers map[string]string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized is fatal",
			status: http.StatusUnauthorized,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrAuthentication) {
					t.Fatalf("expected ErrAuthentication, got %v", err)
				}
			},
		},
		{
			name:   "payment required maps to credits",
			status: http.StatusPaymentRequired,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrInsufficientCredits) {
					t.Fatalf("expected ErrInsufficientCredits, got %v", err)
				}
			},
		},
		{
			name:   "free plan forbidden maps to credits",
			status: http.StatusForbidden,
			body:   `{"error":"api endpoint is not accessible to users on the free plan"}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrInsufficientCredits) {
					t.Fatalf("expected ErrInsufficientCredits, got %v", err)
				}
			},
		},
		{
			name:   "other forbidden stays an api error",
			status: http.StatusForbidden,
			body:   `{"error":"nope"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
					t.Fatalf("expected 403 APIError, got %v", err)
				}
			},
		},
		{
			name:   "server error carries message",
			status: http.StatusInternalServerError,
			body:   `{"message":"boom"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "boom" {
					t.Fatalf("expected APIError with message, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.SearchPeople(context.Background(), SearchFilters{Domain: "acme.io"})
			if err == nil {
				t.Fatalf("expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	calls := 0
	client, waits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(PageResult{People: []Person{{FirstName: "Ada"}}})
	})

	result, err := client.SearchPeople(context.Background(), SearchFilters{Domain: "acme.io"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(result.People) != 1 {
		t.Fatalf("expected one person after retries")
	}
	// Retry-After of 2s doubles per attempt: 2s, then 4s.
	if len(*waits) != 2 || (*waits)[0] != 2*time.Second || (*waits)[1] != 4*time.Second {
		t.Fatalf("unexpected backoff waits: %v", *waits)
	}
}

func TestClientRateLimitExhaustsRetries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchPeople(context.Background(), SearchFilters{Domain: "acme.io"})
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError after retries, got %v", err)
	}
}

func TestEnrichPersonNilResultIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"person": null}`))
	})

	_, err := client.EnrichPerson(context.Background(), EnrichQuery{FirstName: "Ada", LastName: "Lovelace"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for null person, got %v", err)
	}
}

func TestEnrichPersonDecodesEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var query EnrichQuery
		if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
			t.Fatalf("decode query: %v", err)
		}
		if !query.RevealPersonalEmails {
			t.Errorf("expected reveal_personal_emails to be set")
		}
		_, _ = w.Write([]byte(`{"person":{"id":"p1","first_name":"Ada","email":"ada@acme.io"}}`))
	})

	person, err := client.EnrichPerson(context.Background(), EnrichQuery{PersonID: "p1", RevealPersonalEmails: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if person.ID != "p1" || person.Email != "ada@acme.io" {
		t.Fatalf("unexpected person: %+v", person)
	}
}
