package handler

import (
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/dto"
	"github.com/octobees/outreach/api/internal/mailer"
)

// SendHandler exposes POST /send.
type SendHandler struct {
	sender mailer.Sender
	// sent is optional; when wired, recipients already present in the
	// sent folder are rejected instead of mailed twice.
	sent       mailer.SentChecker
	resumePath string
	mock       bool
}

// NewSendHandler constructs a send handler. resumePath may be empty when
// no attachment is configured; sent may be nil.
func NewSendHandler(sender mailer.Sender, sent mailer.SentChecker, resumePath string, mock bool) *SendHandler {
	return &SendHandler{sender: sender, sent: sent, resumePath: resumePath, mock: mock}
}

// Send handles POST /send requests.
func (h *SendHandler) Send(c echo.Context) error {
	var req dto.SendEmailRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.ToEmail = strings.TrimSpace(req.ToEmail)
	if req.ToEmail == "" || req.Subject == "" || req.Body == "" {
		return Error(c, http.StatusBadRequest, "to_email, subject and body are required")
	}
	if _, err := mail.ParseAddress(req.ToEmail); err != nil {
		return Error(c, http.StatusBadRequest, "invalid recipient address")
	}

	ctx := c.Request().Context()

	if h.sent != nil {
		mailed, err := h.sent.AlreadyMailed(ctx, req.ToEmail)
		if err != nil {
			return Error(c, http.StatusBadGateway, err.Error())
		}
		if mailed {
			return Error(c, http.StatusConflict, "recipient was already contacted")
		}
	}

	msg := mailer.Message{
		To:      req.ToEmail,
		Subject: req.Subject,
		Body:    req.Body,
	}

	if req.AttachResume {
		if h.resumePath == "" {
			return Error(c, http.StatusBadRequest, "no resume is configured")
		}
		content, err := os.ReadFile(h.resumePath)
		if err != nil {
			return Error(c, http.StatusInternalServerError, "resume file is not readable")
		}
		msg.Attachment = &mailer.Attachment{
			Filename: filepath.Base(h.resumePath),
			Content:  content,
		}
	}

	if err := h.sender.Send(ctx, msg); err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}

	return Success(c, http.StatusOK, "email sent", dto.SendEmailResponse{
		Status: "sent",
		Mock:   h.mock,
	})
}
