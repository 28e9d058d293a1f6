package draft

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/octobees/outreach/api/internal/entity"
)

// Input carries everything the generator needs for one outreach email.
type Input struct {
	Contact     entity.Contact
	UserContext string
	JobLink     string
}

// Draft is a generated email, split into the parts the send path needs.
type Draft struct {
	Subject string
	Body    string
}

// Generator produces an outreach email draft for one contact.
type Generator interface {
	Generate(ctx context.Context, input Input) (*Draft, error)
}

// GeminiGenerator drafts emails with Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("draft: Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("draft: create Gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate prompts the model and parses the subject line out of its reply.
func (g *GeminiGenerator) Generate(ctx context.Context, input Input) (*Draft, error) {
	prompt := buildPrompt(input)

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("draft: generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("draft: model returned an empty draft")
	}
	return parseDraft(text), nil
}

// MockGenerator renders a fixed template without any remote call. It backs
// local development and tests where no API key is configured.
type MockGenerator struct{}

// Generate fills the template from the input fields.
func (MockGenerator) Generate(_ context.Context, input Input) (*Draft, error) {
	name := input.Contact.FirstName
	if name == "" {
		name = "there"
	}
	company := input.Contact.Company
	if company == "" {
		company = "your company"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", name)
	fmt.Fprintf(&body, "I came across %s and was impressed by what the team is building.", company)
	if input.JobLink != "" {
		fmt.Fprintf(&body, " I noticed the open role at %s and believe I would be a strong fit.", input.JobLink)
	}
	body.WriteString("\n\n")
	if input.UserContext != "" {
		fmt.Fprintf(&body, "A bit about me: %s\n\n", input.UserContext)
	}
	body.WriteString("Would you be open to a short chat this week?\n\nBest regards")

	return &Draft{
		Subject: fmt.Sprintf("Quick question about %s", company),
		Body:    body.String(),
	}, nil
}

// buildPrompt assembles the instruction for the model. The model is asked
// to put the subject on its own first line so parseDraft can split it off.
func buildPrompt(input Input) string {
	var b strings.Builder
	b.WriteString("Write a short, personalized cold outreach email.\n\n")

	fmt.Fprintf(&b, "Recipient: %s", input.Contact.FullName())
	if input.Contact.Title != "" {
		fmt.Fprintf(&b, ", %s", input.Contact.Title)
	}
	if input.Contact.Company != "" {
		fmt.Fprintf(&b, " at %s", input.Contact.Company)
	}
	b.WriteString("\n")
	if input.Contact.Headline != "" {
		fmt.Fprintf(&b, "Recipient headline: %s\n", input.Contact.Headline)
	}
	if input.UserContext != "" {
		fmt.Fprintf(&b, "About the sender: %s\n", input.UserContext)
	}
	if input.JobLink != "" {
		fmt.Fprintf(&b, "The sender is interested in this role: %s\n", input.JobLink)
	}

	b.WriteString(`
Requirements:
- Under 150 words, professional but warm, no buzzwords.
- Reference the recipient's role or company concretely.
- End with a single clear call to action.
- First line of the output must be "Subject: <subject>", then a blank line, then the body.
- Output plain text only, no markdown.`)

	return b.String()
}

// parseDraft splits a "Subject: ..." first line from the body. Output that
// does not follow the format becomes the body with a generic subject.
func parseDraft(text string) *Draft {
	text = strings.TrimSpace(text)

	subject := "Reaching out"
	body := text
	if line, rest, found := strings.Cut(text, "\n"); found {
		trimmed := strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(trimmed, "Subject:"); ok {
			subject = strings.TrimSpace(after)
			body = strings.TrimSpace(rest)
		}
	} else if after, ok := strings.CutPrefix(text, "Subject:"); ok {
		subject = strings.TrimSpace(after)
		body = ""
	}

	return &Draft{Subject: subject, Body: body}
}
