package domain

import (
	"context"
	"time"
)

// DefaultOrganizationRole labels a partner organization attached without an explicit role.
const DefaultOrganizationRole = "partner"

// EventWork links a work presented at an event, optionally with a presenter.
// swagger:model EventWork
type EventWork struct {
	EventID     int64     `json:"id_evenement"`
	WorkID      int64     `json:"id_oeuvre"`
	PresenterID *int64    `json:"id_presentateur"`
	Description *string   `json:"description_presentation"`
	CreatedAt   time.Time `json:"date_creation"`
}

// EventWorkDetail is an EventWork joined with the work and its presenter.
// swagger:model EventWorkDetail
type EventWorkDetail struct {
	*EventWork
	Work      *Work        `json:"oeuvre"`
	Presenter *UserSummary `json:"presentateur"`
}

// EventOrganization links a partner organization to an event.
// swagger:model EventOrganization
type EventOrganization struct {
	EventID        int64     `json:"id_evenement"`
	OrganizationID int64     `json:"id_organisation"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"date_creation"`
}

// EventOrganizationDetail is an EventOrganization joined with the organization.
// swagger:model EventOrganizationDetail
type EventOrganizationDetail struct {
	*EventOrganization
	Organization *Organization `json:"organisation"`
}

// EventWorkRepository defines storage for event/work links.
type EventWorkRepository interface {
	// Create inserts the link; a duplicate pair returns ErrConflict.
	Create(ctx context.Context, ew *EventWork) error
	ListByEventID(ctx context.Context, eventID int64) ([]*EventWorkDetail, error)
}

// EventOrganizationRepository defines storage for event/organization links.
type EventOrganizationRepository interface {
	// Create inserts the link; a duplicate pair returns ErrConflict.
	Create(ctx context.Context, eo *EventOrganization) error
	ListByEventID(ctx context.Context, eventID int64) ([]*EventOrganizationDetail, error)
}
