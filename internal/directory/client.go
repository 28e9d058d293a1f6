package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.apollo.io"
	maxPageSize    = 100
	defaultRetries = 3
)

// Client is a low-level HTTP wrapper for the people directory API. It is
// constructed explicitly and passed into the services that need it; it
// holds no process-wide state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int

	// sleep is overridable so retry timing can be asserted in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption configures optional client behaviour.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMaxRetries changes the retry ceiling for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// NewClient builds a directory API client authenticated by a static header
// credential.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxRetries: defaultRetries,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchFilters constrain a people search. Either OrganizationID or Domain
// must be set; the organization id gives more reliable matching and is
// preferred when both are present.
type SearchFilters struct {
	OrganizationID       string
	Domain               string
	Titles               []string
	Seniorities          []string
	IncludeSimilarTitles bool
	PerPage              int
	Page                 int
}

type peopleSearchRequest struct {
	OrganizationIDs      []string `json:"organization_ids,omitempty"`
	OrganizationDomains  []string `json:"q_organization_domains,omitempty"`
	PersonTitles         []string `json:"person_titles,omitempty"`
	PersonSeniorities    []string `json:"person_seniorities,omitempty"`
	IncludeSimilarTitles bool     `json:"include_similar_titles"`
	PerPage              int      `json:"per_page"`
	Page                 int      `json:"page"`
}

// SearchPeople runs one page of the free people search.
func (c *Client) SearchPeople(ctx context.Context, filters SearchFilters) (*PageResult, error) {
	if filters.OrganizationID == "" && filters.Domain == "" {
		return nil, errors.New("directory: search requires an organization id or domain")
	}

	perPage := filters.PerPage
	if perPage <= 0 || perPage > maxPageSize {
		perPage = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	body := peopleSearchRequest{
		PersonTitles:         filters.Titles,
		PersonSeniorities:    filters.Seniorities,
		IncludeSimilarTitles: filters.IncludeSimilarTitles,
		PerPage:              perPage,
		Page:                 page,
	}
	if filters.OrganizationID != "" {
		body.OrganizationIDs = []string{filters.OrganizationID}
	} else {
		body.OrganizationDomains = []string{filters.Domain}
	}

	var result PageResult
	if err := c.post(ctx, "/api/v1/mixed_people/api_search", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EnrichQuery identifies the person whose contact details should be
// revealed. The person id is the strongest hint; name plus organization is
// the fallback for obfuscated records.
type EnrichQuery struct {
	PersonID             string `json:"id,omitempty"`
	Email                string `json:"email,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	OrganizationName     string `json:"organization_name,omitempty"`
	Domain               string `json:"domain,omitempty"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails"`
	RevealPhoneNumber    bool   `json:"reveal_phone_number"`
}

// EnrichPerson reveals a person's email and phone. This call consumes
// credits.
func (c *Client) EnrichPerson(ctx context.Context, query EnrichQuery) (*Person, error) {
	var result struct {
		Person *Person `json:"person"`
	}
	if err := c.post(ctx, "/api/v1/people/match", query, &result); err != nil {
		return nil, err
	}
	if result.Person == nil {
		return nil, ErrNotFound
	}
	return result.Person, nil
}

// SearchOrganizations looks up companies by name, used for resolving
// free-text company input to a domain and organization id.
func (c *Client) SearchOrganizations(ctx context.Context, name string) ([]Organization, error) {
	body := map[string]any{
		"q_organization_name": name,
		"per_page":            5,
	}
	var result struct {
		Organizations []Organization `json:"organizations"`
	}
	if err := c.post(ctx, "/v1/organizations/search", body, &result); err != nil {
		return nil, err
	}
	return result.Organizations, nil
}

// post issues a JSON POST with the client's retry policy: network errors
// and rate limits retry with exponential backoff, everything else
// propagates immediately.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		err := c.doOnce(ctx, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var rateErr *RateLimitError
		switch {
		case errors.As(err, &rateErr):
			if attempt == c.maxRetries-1 {
				return err
			}
			// Server-supplied retry-after, doubled per attempt.
			wait := rateErr.RetryAfter * (1 << attempt)
			if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
				return sleepErr
			}
		case isNetworkError(err):
			if attempt == c.maxRetries-1 {
				return fmt.Errorf("directory: network error after %d attempts: %w", c.maxRetries, err)
			}
			wait := time.Duration(1<<attempt) * time.Second
			if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
				return sleepErr
			}
		default:
			return err
		}
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return classifyStatus(resp)
}

func classifyStatus(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrAuthentication
	case http.StatusTooManyRequests:
		retryAfter := 60 * time.Second
		if v := resp.Header.Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusPaymentRequired:
		return ErrInsufficientCredits
	case http.StatusForbidden:
		// Plan-tier restrictions come back as 403 with an explanatory body.
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &payload); err == nil &&
			strings.Contains(payload.Error, "not accessible") && strings.Contains(payload.Error, "free plan") {
			return ErrInsufficientCredits
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "access forbidden, check API key permissions"}
	default:
		message := string(data)
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
			message = payload.Message
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
}

func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
