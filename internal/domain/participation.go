package domain

import (
	"context"
	"time"
)

// ParticipationStatus is the lifecycle state of a user's participation in an event.
type ParticipationStatus string

const (
	StatusEnrolled  ParticipationStatus = "inscrit"
	StatusConfirmed ParticipationStatus = "confirme"
	StatusPresent   ParticipationStatus = "present"
	StatusAbsent    ParticipationStatus = "absent"
	StatusCancelled ParticipationStatus = "annule"
)

// DefaultParticipantRole is used when an enrollment names no role.
const DefaultParticipantRole = "participant"

// participationTransitions lists the explicit transitions an organizer or admin may drive.
var participationTransitions = map[ParticipationStatus][]ParticipationStatus{
	StatusEnrolled:  {StatusConfirmed, StatusPresent, StatusAbsent, StatusCancelled},
	StatusConfirmed: {StatusPresent, StatusAbsent, StatusCancelled},
	StatusPresent:   {StatusAbsent},
	StatusAbsent:    {StatusPresent},
	StatusCancelled: {StatusConfirmed},
}

// Valid reports whether s is a known status.
func (s ParticipationStatus) Valid() bool {
	_, ok := participationTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
// Re-applying the current status is allowed; returning to enrolled never is.
func (s ParticipationStatus) CanTransitionTo(next ParticipationStatus) bool {
	if next == StatusEnrolled {
		return false
	}
	if s == next {
		return true
	}
	for _, t := range participationTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Withdrawable reports whether the participant may still remove the participation.
func (s ParticipationStatus) Withdrawable() bool {
	return s != StatusPresent && s != StatusAbsent
}

// Participation is the (event, user) join record. At most one exists per pair.
// swagger:model Participation
type Participation struct {
	EventID     int64               `json:"id_evenement"`
	UserID      int64               `json:"id_user"`
	Role        string              `json:"role_participation"`
	Status      ParticipationStatus `json:"statut"`
	EnrolledAt  time.Time           `json:"date_inscription"`
	Notes       *string             `json:"notes"`
	ValidatedAt *time.Time          `json:"date_validation"`
	ValidatedBy *int64              `json:"valide_par"`
}

// NewParticipation returns an enrolled participation.
func NewParticipation(eventID, userID int64, role string, enrolledAt time.Time) *Participation {
	if role == "" {
		role = DefaultParticipantRole
	}
	return &Participation{
		EventID:    eventID,
		UserID:     userID,
		Role:       role,
		Status:     StatusEnrolled,
		EnrolledAt: enrolledAt,
	}
}

// ParticipationDetail is a participation joined with the participant.
// swagger:model ParticipationDetail
type ParticipationDetail struct {
	*Participation
	User *UserSummary `json:"user"`
}

// StatusChange is the write performed by a state machine transition.
type StatusChange struct {
	From        ParticipationStatus
	To          ParticipationStatus
	Notes       *string
	ValidatedAt time.Time
	ValidatedBy int64
}

// ParticipationRepository defines storage operations for participations.
type ParticipationRepository interface {
	// Create inserts the row; a duplicate (event, user) pair returns ErrConflict.
	Create(ctx context.Context, p *Participation) error
	Get(ctx context.Context, eventID, userID int64) (*Participation, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*ParticipationDetail, error)
	// UpdateStatus applies change only while the stored status still equals change.From.
	// It returns ErrConflict when the row exists with another status.
	UpdateStatus(ctx context.Context, eventID, userID int64, change StatusChange) (*Participation, error)
	// DeleteWithdrawable removes the row unless its status forbids withdrawal.
	// It reports whether a row was deleted.
	DeleteWithdrawable(ctx context.Context, eventID, userID int64) (bool, error)
}

// ParticipationService drives enrollment and the participation state machine.
type ParticipationService interface {
	Enroll(ctx context.Context, eventID, userID int64, role string, notes *string) (*Participation, error)
	Withdraw(ctx context.Context, eventID, userID int64) error
	SetStatus(ctx context.Context, eventID, userID int64, status ParticipationStatus, notes *string, actor Actor) (*Participation, error)
	ListParticipants(ctx context.Context, eventID int64) ([]*ParticipationDetail, error)
}
