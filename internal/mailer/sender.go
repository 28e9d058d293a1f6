package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime"
	"net/smtp"
	"path/filepath"
	"strings"
	"time"
)

// Attachment is a file to include with an outgoing email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outgoing email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Sender delivers outreach emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender configures delivery through host:port with PLAIN auth.
// Port 587 relays negotiate STARTTLS inside smtp.SendMail.
func NewSMTPSender(host, port, username, password, from string) (*SMTPSender, error) {
	if host == "" || username == "" || password == "" {
		return nil, fmt.Errorf("mailer: SMTP host, username and password are required")
	}
	if port == "" {
		port = "587"
	}
	if from == "" {
		from = username
	}
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}, nil
}

// Send assembles the MIME message and hands it to the relay. Delivery is
// synchronous; the ctx deadline is not enforced below the SMTP dial since
// net/smtp offers no context hook, so callers should keep timeouts modest.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("mailer: recipient address is required")
	}

	raw := buildMessage(s.from, msg)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

// buildMessage renders the full RFC 822 payload. Without an attachment the
// message is plain text; with one it becomes multipart/mixed with a base64
// encoded file part.
func buildMessage(from string, msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment == nil {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String())
	}

	const boundary = "outreach-mixed-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentTypeFor(msg.Attachment.Filename))
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", msg.Attachment.Filename)

	encoded := base64.StdEncoding.EncodeToString(msg.Attachment.Content)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// MockSender logs instead of delivering; it backs local development where
// no SMTP credentials are configured.
type MockSender struct{}

// Send records the message in the process log and succeeds.
func (MockSender) Send(_ context.Context, msg Message) error {
	log.Printf("mock mail to=%s subject=%q bytes=%d", msg.To, msg.Subject, len(msg.Body))
	return nil
}
