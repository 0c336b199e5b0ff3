package domain

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Program is a scheduled agenda entry within an event.
// swagger:model Program
type Program struct {
	ID           int64      `json:"id_programme"`
	EventID      int64      `json:"id_evenement"`
	Title        string     `json:"titre"`
	Description  *string    `json:"description"`
	StartTime    *time.Time `json:"heure_debut"`
	EndTime      *time.Time `json:"heure_fin"`
	ActivityType *string    `json:"type_activite"`
	Order        *int       `json:"ordre"`
	CreatedAt    time.Time  `json:"date_creation"`
	UpdatedAt    time.Time  `json:"date_modification"`
}

// NewProgram returns a new Program for eventID built from input. ID is set by the repository on create.
func NewProgram(eventID int64, input ProgramInput, createdAt time.Time) *Program {
	return &Program{
		EventID:      eventID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		ActivityType: input.ActivityType,
		Order:        input.Order,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// ProgramWithSpeakers is a program and the users speaking in it.
// swagger:model ProgramWithSpeakers
type ProgramWithSpeakers struct {
	*Program
	Speakers []*UserSummary `json:"intervenants"`
}

// ProgramInput describes one agenda entry to create.
type ProgramInput struct {
	Title        string     `json:"titre"`
	Description  *string    `json:"description,omitempty"`
	StartTime    *time.Time `json:"heure_debut,omitempty"`
	EndTime      *time.Time `json:"heure_fin,omitempty"`
	ActivityType *string    `json:"type_activite,omitempty"`
	Order        *int       `json:"ordre,omitempty"`
	SpeakerIDs   []int64    `json:"intervenants,omitempty"`
}

// Validate reports problems with the entry, prefixing field names with prefix.
func (in ProgramInput) Validate(v *ValidationError, prefix string) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		v.Add(prefix+"titre", "is required")
	}
	v.CheckLength(prefix+"titre", title, MaxTitleLength)
	v.CheckOptionalLength(prefix+"type_activite", in.ActivityType, MaxActivityTypeLength)
	if in.StartTime != nil && in.EndTime != nil && in.EndTime.Before(*in.StartTime) {
		v.Add(prefix+"heure_fin", "must not precede heure_debut")
	}
	if in.Order != nil && *in.Order < 0 {
		v.Add(prefix+"ordre", "must not be negative")
	}
	for _, id := range in.SpeakerIDs {
		if id <= 0 {
			v.Add(prefix+"intervenants", "identifiers must be positive")
			break
		}
	}
}

// SortPrograms orders programs for display: by Order ascending (unset last),
// ties broken by start time ascending (unset last). The sort is stable.
func SortPrograms(programs []*ProgramWithSpeakers) {
	sort.SliceStable(programs, func(i, j int) bool {
		a, b := programs[i].Program, programs[j].Program
		switch {
		case a.Order != nil && b.Order != nil && *a.Order != *b.Order:
			return *a.Order < *b.Order
		case a.Order != nil && b.Order == nil:
			return true
		case a.Order == nil && b.Order != nil:
			return false
		}
		switch {
		case a.StartTime != nil && b.StartTime != nil:
			return a.StartTime.Before(*b.StartTime)
		case a.StartTime != nil:
			return true
		}
		return false
	})
}

// ProgramRepository defines storage for programs and their speakers.
type ProgramRepository interface {
	Create(ctx context.Context, p *Program) error
	GetByID(ctx context.Context, id int64) (*Program, error)
	ListByEventID(ctx context.Context, eventID int64) ([]*Program, error)
	// AttachSpeakers links users to the program; already linked users are skipped.
	AttachSpeakers(ctx context.Context, programID int64, userIDs []int64) error
	// ListSpeakers returns speakers keyed by program id.
	ListSpeakers(ctx context.Context, programIDs []int64) (map[int64][]*UserSummary, error)
}

// ProgramService manages the program sub-aggregate of an event.
type ProgramService interface {
	AddProgram(ctx context.Context, eventID int64, input ProgramInput, actor Actor) (*ProgramWithSpeakers, error)
	AttachSpeakers(ctx context.Context, programID int64, userIDs []int64, actor Actor) (*ProgramWithSpeakers, error)
	ListPrograms(ctx context.Context, eventID int64) ([]*ProgramWithSpeakers, error)
}
