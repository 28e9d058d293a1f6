package mailer

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// SentChecker reports whether an address was already contacted, so repeat
// sends to the same person can be skipped.
type SentChecker interface {
	AlreadyMailed(ctx context.Context, email string) (bool, error)
}

// GmailSentChecker queries the authenticated account's sent folder.
type GmailSentChecker struct {
	service *gmail.Service
}

// NewGmailSentChecker builds a checker from Google API client options
// (typically option.WithTokenSource from the configured OAuth credentials).
func NewGmailSentChecker(ctx context.Context, opts ...option.ClientOption) (*GmailSentChecker, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: create gmail service: %w", err)
	}
	return &GmailSentChecker{service: service}, nil
}

// AlreadyMailed searches the sent folder for any message to the address.
func (c *GmailSentChecker) AlreadyMailed(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, fmt.Errorf("mailer: email address is required")
	}
	resp, err := c.service.Users.Messages.List("me").
		Q(fmt.Sprintf("in:sent to:%s", email)).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("mailer: search sent mail for %s: %w", email, err)
	}
	return len(resp.Messages) > 0, nil
}
