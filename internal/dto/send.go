package dto

// SendEmailRequest delivers a drafted email to a single recipient.
type SendEmailRequest struct {
	ToEmail      string `json:"to_email"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	AttachResume bool   `json:"attach_resume"`
}

// SendEmailResponse reports the delivery outcome.
type SendEmailResponse struct {
	Status string `json:"status"`
	Mock   bool   `json:"mock"`
}
