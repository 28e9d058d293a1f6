package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/dto"
	"github.com/octobees/outreach/api/internal/mailer"
)

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type stubSentChecker struct {
	mailed bool
	err    error
}

func (s *stubSentChecker) AlreadyMailed(context.Context, string) (bool, error) {
	return s.mailed, s.err
}

func TestSendHandler(t *testing.T) {
	e := echo.New()

	t.Run("requires fields", func(t *testing.T) {
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "ada@acme.io"})
		_ = NewSendHandler(&recordingSender{}, nil, "", true).Send(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects invalid address", func(t *testing.T) {
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "not-an-address", Subject: "s", Body: "b"})
		_ = NewSendHandler(&recordingSender{}, nil, "", true).Send(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("sends and reports mock flag", func(t *testing.T) {
		sender := &recordingSender{}
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "ada@acme.io", Subject: "Hello", Body: "Hi"})
		if err := NewSendHandler(sender, nil, "", true).Send(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(sender.sent) != 1 {
			t.Fatalf("expected one message sent")
		}

		var envelope struct {
			Data dto.SendEmailResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if envelope.Data.Status != "sent" || !envelope.Data.Mock {
			t.Fatalf("unexpected response: %+v", envelope.Data)
		}
	})

	t.Run("skips already contacted recipients", func(t *testing.T) {
		sender := &recordingSender{}
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "ada@acme.io", Subject: "Hello", Body: "Hi"})
		_ = NewSendHandler(sender, &stubSentChecker{mailed: true}, "", true).Send(c)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if len(sender.sent) != 0 {
			t.Fatalf("already contacted recipient must not be mailed")
		}
	})

	t.Run("attaches configured resume", func(t *testing.T) {
		resume := filepath.Join(t.TempDir(), "resume.pdf")
		if err := os.WriteFile(resume, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("write resume: %v", err)
		}

		sender := &recordingSender{}
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "ada@acme.io", Subject: "Hello", Body: "Hi", AttachResume: true})
		if err := NewSendHandler(sender, nil, resume, true).Send(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if sender.sent[0].Attachment == nil || sender.sent[0].Attachment.Filename != "resume.pdf" {
			t.Fatalf("expected resume attached, got %+v", sender.sent[0].Attachment)
		}
	})

	t.Run("attachment without configured resume fails", func(t *testing.T) {
		c, rec := postJSON(t, e, "/send", dto.SendEmailRequest{ToEmail: "ada@acme.io", Subject: "Hello", Body: "Hi", AttachResume: true})
		_ = NewSendHandler(&recordingSender{}, nil, "", true).Send(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
