package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ParticipationStatusEmailData holds data for the participation status email.
type ParticipationStatusEmailData struct {
	Email     string
	FirstName string
	EventName string
	Status    ParticipationStatus
	Notes     string
}

// EnrollmentEmailData holds data for the enrollment acknowledgement email.
type EnrollmentEmailData struct {
	Email     string
	FirstName string
	EventName string
	Role      string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendParticipationStatus(ctx context.Context, data *ParticipationStatusEmailData) error
	SendEnrollment(ctx context.Context, data *EnrollmentEmailData) error
}
