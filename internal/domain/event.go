package domain

import (
	"context"
	"time"
)

// Event is a cultural event: the root of the event aggregate.
// swagger:model Event
type Event struct {
	ID           int64      `json:"id_evenement"`
	Name         string     `json:"nom_evenement"`
	Description  *string    `json:"description"`
	StartDate    *time.Time `json:"date_debut"`
	EndDate      *time.Time `json:"date_fin"`
	VenueID      int64      `json:"id_lieu"`
	EventTypeID  int64      `json:"id_type_evenement"`
	OrganizerID  int64      `json:"id_user"`
	ContactEmail *string    `json:"contact_email"`
	ContactPhone *string    `json:"contact_telephone"`
	ImageURL     *string    `json:"image_url"`
	CreatedAt    time.Time  `json:"date_creation"`
	UpdatedAt    time.Time  `json:"date_modification"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name string, venueID, eventTypeID, organizerID int64, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		VenueID:     venueID,
		EventTypeID: eventTypeID,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ManagedBy reports whether the actor may mutate the event: its organizer or an administrator.
func (e *Event) ManagedBy(actor Actor) bool {
	return actor.Admin || (actor.UserID != 0 && actor.UserID == e.OrganizerID)
}

// EventPatch carries the scalar fields of a partial update. Nil fields are left unchanged.
// Identity and organizer are deliberately absent.
type EventPatch struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	VenueID      *int64
	EventTypeID  *int64
	ContactEmail *string
	ContactPhone *string
	ImageURL     *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.StartDate == nil && p.EndDate == nil &&
		p.VenueID == nil && p.EventTypeID == nil && p.ContactEmail == nil && p.ContactPhone == nil &&
		p.ImageURL == nil
}

// Apply returns a copy of e with the patch applied.
func (p EventPatch) Apply(e Event) Event {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.StartDate != nil {
		e.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = p.EndDate
	}
	if p.VenueID != nil {
		e.VenueID = *p.VenueID
	}
	if p.EventTypeID != nil {
		e.EventTypeID = *p.EventTypeID
	}
	if p.ContactEmail != nil {
		e.ContactEmail = p.ContactEmail
	}
	if p.ContactPhone != nil {
		e.ContactPhone = p.ContactPhone
	}
	if p.ImageURL != nil {
		e.ImageURL = p.ImageURL
	}
	return e
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	// GetDetail loads the event with its venue hierarchy, event type and organizer.
	GetDetail(ctx context.Context, id int64) (*EventDetail, error)
	Update(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
	// List returns one page of events matching filter plus the total match count.
	List(ctx context.Context, filter EventFilter, page PaginationParams) ([]*EventSummary, int, error)
}

// EventDetail is an event joined with its single-valued relations.
type EventDetail struct {
	Event     *Event       `json:"evenement"`
	Venue     *Venue       `json:"lieu"`
	EventType *EventType   `json:"type_evenement"`
	Organizer *UserSummary `json:"organisateur"`
}

// EventAggregate is the complete event view returned by the detail endpoint and after create.
// swagger:model EventAggregate
type EventAggregate struct {
	*Event
	Venue         *Venue                     `json:"lieu"`
	EventType     *EventType                 `json:"type_evenement"`
	Organizer     *UserSummary               `json:"organisateur"`
	Programs      []*ProgramWithSpeakers     `json:"programmes"`
	Works         []*EventWorkDetail         `json:"oeuvres"`
	Participants  []*ParticipationDetail     `json:"participants"`
	Organizations []*EventOrganizationDetail `json:"organisations"`
	Media         []*Media                   `json:"medias"`
}

// EventSummary is one row of the event listing.
// swagger:model EventSummary
type EventSummary struct {
	*Event
	VenueName     string `json:"nom_lieu"`
	WilayaID      int64  `json:"id_wilaya"`
	WilayaName    string `json:"nom_wilaya"`
	EventTypeName string `json:"nom_type_evenement"`
}

// WorkInput is a work to present at an event.
type WorkInput struct {
	WorkID      int64   `json:"id_oeuvre"`
	PresenterID *int64  `json:"id_presentateur,omitempty"`
	Description *string `json:"description_presentation,omitempty"`
}

// ParticipantInput enrolls a user when the event is created.
type ParticipantInput struct {
	UserID int64  `json:"id_user"`
	Role   string `json:"role"`
}

// OrganizationInput attaches a partner organization.
type OrganizationInput struct {
	OrganizationID int64  `json:"id_organisation"`
	Role           string `json:"role,omitempty"`
}

// CreateEventInput is everything needed to create an event aggregate in one unit of work.
type CreateEventInput struct {
	Name          string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	VenueID       int64
	EventTypeID   int64
	ContactEmail  *string
	ContactPhone  *string
	ImageURL      *string
	Works         []WorkInput
	Participants  []ParticipantInput
	Organizations []OrganizationInput
	Programs      []ProgramInput
}

// EventService orchestrates writes to the event aggregate.
type EventService interface {
	Create(ctx context.Context, input CreateEventInput, actor Actor) (*EventAggregate, error)
	Update(ctx context.Context, eventID int64, patch EventPatch, actor Actor) (*EventAggregate, error)
	Delete(ctx context.Context, eventID int64, actor Actor) error
	AttachWork(ctx context.Context, eventID int64, work WorkInput, actor Actor) (*EventWork, error)
	AttachOrganization(ctx context.Context, eventID int64, org OrganizationInput, actor Actor) (*EventOrganization, error)
}

// EventAssembler builds the complete read view of one event.
type EventAssembler interface {
	GetFull(ctx context.Context, eventID int64) (*EventAggregate, error)
}

// EventListingService serves the filtered, paginated event listing.
type EventListingService interface {
	List(ctx context.Context, filter EventFilter, page PaginationParams) (*EventPage, error)
}
