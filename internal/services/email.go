package services

import (
	"context"
	"fmt"
	"log/slog"

	"heritagecatalog/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendParticipationStatus tells a participant that an organizer changed their status.
func (s *emailService) SendParticipationStatus(ctx context.Context, data *domain.ParticipationStatusEmailData) error {
	if data == nil {
		return fmt.Errorf("participation status email data is nil")
	}
	return s.send(ctx, "participation_status", data.Email, data)
}

// SendEnrollment acknowledges a new enrollment.
func (s *emailService) SendEnrollment(ctx context.Context, data *domain.EnrollmentEmailData) error {
	if data == nil {
		return fmt.Errorf("enrollment email data is nil")
	}
	return s.send(ctx, "enrollment", data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
