package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"heritagecatalog/internal/domain"
)

type participationService struct {
	repos          *domain.Repositories
	emailService   domain.EmailService
	logger         *slog.Logger
	now            func() time.Time
	contextTimeout time.Duration
}

// NewParticipationService returns the service driving enrollment and participation status.
// emailService may be nil, in which case no notification is sent.
func NewParticipationService(
	repos *domain.Repositories,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		repos:          repos,
		emailService:   emailService,
		logger:         logger,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *participationService) Enroll(ctx context.Context, eventID, userID int64, role string, notes *string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	role = strings.TrimSpace(role)
	v := &domain.ValidationError{}
	v.CheckLength("role", role, domain.MaxRoleLength)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookupError("event", err)
	}

	p := domain.NewParticipation(eventID, userID, role, s.now())
	p.Notes = notes
	// No existence check: the primary key on (event, user) rejects the second of two racing enrollments.
	if err := s.repos.Participations.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: user %d is already enrolled in event %d", domain.ErrConflict, userID, eventID)
		}
		if errors.Is(err, domain.ErrReferentialIntegrity) {
			return nil, &domain.ReferenceError{Entity: domain.EntityUser, IDs: []int64{userID}}
		}
		return nil, fmt.Errorf("create participation: %w", err)
	}

	s.notifyEnrollment(ctx, event, p)
	return p, nil
}

func (s *participationService) Withdraw(ctx context.Context, eventID, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	deleted, err := s.repos.Participations.DeleteWithdrawable(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("withdraw participation: %w", err)
	}
	if deleted {
		return nil
	}
	p, err := s.repos.Participations.Get(ctx, eventID, userID)
	if err != nil {
		return lookupError("participation", err)
	}
	return fmt.Errorf("%w: participation with status %s cannot be withdrawn", domain.ErrConflict, p.Status)
}

func (s *participationService) SetStatus(ctx context.Context, eventID, userID int64, status domain.ParticipationStatus, notes *string, actor domain.Actor) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.NewValidationError("statut", "must be one of inscrit, confirme, present, absent, annule")
	}
	if status == domain.StatusEnrolled {
		return nil, domain.NewValidationError("statut", "a participation cannot be moved back to %s", domain.StatusEnrolled)
	}

	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookupError("event", err)
	}
	if !event.ManagedBy(actor) {
		return nil, domain.ErrForbidden
	}

	current, err := s.repos.Participations.Get(ctx, eventID, userID)
	if err != nil {
		return nil, lookupError("participation", err)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: participation cannot move from %s to %s", domain.ErrConflict, current.Status, status)
	}

	updated, err := s.repos.Participations.UpdateStatus(ctx, eventID, userID, domain.StatusChange{
		From:        current.Status,
		To:          status,
		Notes:       notes,
		ValidatedAt: s.now(),
		ValidatedBy: actor.UserID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update participation status: %w", err)
	}

	if current.Status != status {
		s.notifyStatus(ctx, event, updated)
	}
	return updated, nil
}

func (s *participationService) ListParticipants(ctx context.Context, eventID int64) ([]*domain.ParticipationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return nil, lookupError("event", err)
	}
	participants, err := s.repos.Participations.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// notifyStatus emails the participant. Failures are logged and never undo the transition.
func (s *participationService) notifyStatus(ctx context.Context, event *domain.Event, p *domain.Participation) {
	if s.emailService == nil {
		return
	}
	user, err := s.repos.References.GetUser(ctx, p.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "participation status email skipped", "event_id", event.ID, "user_id", p.UserID, "error", err)
		return
	}
	data := &domain.ParticipationStatusEmailData{
		Email:     user.Email,
		FirstName: user.FirstName,
		EventName: event.Name,
		Status:    p.Status,
	}
	if p.Notes != nil {
		data.Notes = *p.Notes
	}
	if err := s.emailService.SendParticipationStatus(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "participation status email failed", "event_id", event.ID, "user_id", p.UserID, "error", err)
	}
}

func (s *participationService) notifyEnrollment(ctx context.Context, event *domain.Event, p *domain.Participation) {
	if s.emailService == nil {
		return
	}
	user, err := s.repos.References.GetUser(ctx, p.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "enrollment email skipped", "event_id", event.ID, "user_id", p.UserID, "error", err)
		return
	}
	err = s.emailService.SendEnrollment(ctx, &domain.EnrollmentEmailData{
		Email:     user.Email,
		FirstName: user.FirstName,
		EventName: event.Name,
		Role:      p.Role,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "enrollment email failed", "event_id", event.ID, "user_id", p.UserID, "error", err)
	}
}

// lookupError names the missing entity on ErrNotFound and wraps anything else.
func lookupError(entity string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %w", entity, domain.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}
