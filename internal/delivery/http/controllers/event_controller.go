package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"heritagecatalog/internal/delivery/http/helpers"
	"heritagecatalog/internal/delivery/http/middleware"
	"heritagecatalog/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
// Field rules are checked by the event service.
type CreateEventRequest struct {
	Name             string                     `json:"nom_evenement"`
	Description      *string                    `json:"description"`
	StartDate        *time.Time                 `json:"date_debut"`
	EndDate          *time.Time                 `json:"date_fin"`
	VenueID          int64                      `json:"id_lieu"`
	EventTypeID      int64                      `json:"id_type_evenement"`
	ContactEmail     *string                    `json:"contact_email"`
	ContactTelephone *string                    `json:"contact_telephone"`
	ImageURL         *string                    `json:"image_url"`
	Works            []domain.WorkInput         `json:"works"`
	Participants     []domain.ParticipantInput  `json:"participants"`
	Organizations    []domain.OrganizationInput `json:"organizations"`
	Programs         []domain.ProgramInput      `json:"programs"`
}

func (c CreateEventRequest) toInput() domain.CreateEventInput {
	return domain.CreateEventInput{
		Name:          c.Name,
		Description:   c.Description,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		VenueID:       c.VenueID,
		EventTypeID:   c.EventTypeID,
		ContactEmail:  c.ContactEmail,
		ContactPhone:  c.ContactTelephone,
		ImageURL:      c.ImageURL,
		Works:         c.Works,
		Participants:  c.Participants,
		Organizations: c.Organizations,
		Programs:      c.Programs,
	}
}

// UpdateEventRequest is the request body for PUT /events/{id}. Omitted fields are unchanged;
// the organizer and identifier cannot be changed.
type UpdateEventRequest struct {
	Name             *string    `json:"nom_evenement"`
	Description      *string    `json:"description"`
	StartDate        *time.Time `json:"date_debut"`
	EndDate          *time.Time `json:"date_fin"`
	VenueID          *int64     `json:"id_lieu"`
	EventTypeID      *int64     `json:"id_type_evenement"`
	ContactEmail     *string    `json:"contact_email"`
	ContactTelephone *string    `json:"contact_telephone"`
	ImageURL         *string    `json:"image_url"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate(v *domain.ValidationError) {
	if u.toPatch().Empty() {
		v.Add("body", "at least one field must be provided")
	}
}

func (u UpdateEventRequest) toPatch() domain.EventPatch {
	return domain.EventPatch{
		Name:         u.Name,
		Description:  u.Description,
		StartDate:    u.StartDate,
		EndDate:      u.EndDate,
		VenueID:      u.VenueID,
		EventTypeID:  u.EventTypeID,
		ContactEmail: u.ContactEmail,
		ContactPhone: u.ContactTelephone,
		ImageURL:     u.ImageURL,
	}
}

// EventAggregateResponse is the success envelope for endpoints returning a full event.
type EventAggregateResponse struct {
	Success bool                   `json:"success"`
	Data    *domain.EventAggregate `json:"data"`
}

// EventPageResponse is the success envelope for GET /events.
type EventPageResponse struct {
	Success bool              `json:"success"`
	Data    *domain.EventPage `json:"data"`
}

type EventController struct {
	Logger    *slog.Logger
	Events    domain.EventService
	Assembler domain.EventAssembler
	Listing   domain.EventListingService
}

func NewEventController(logger *slog.Logger, events domain.EventService, assembler domain.EventAssembler, listing domain.EventListingService) *EventController {
	return &EventController{
		Logger:    logger,
		Events:    events,
		Assembler: assembler,
		Listing:   listing,
	}
}

// CreateEvent godoc
// @Summary Create an event with its works, participants, organizations and programs
// @Description Creates the event and every child row in one transaction. The caller becomes the organizer. Any failure leaves nothing behind.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event aggregate"
// @Success 201 {object} controllers.EventAggregateResponse
// @Failure 400 {object} helpers.APIErrorResponse "validation_error or unknown_reference"
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse "rolled back"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	agg, err := c.Events.Create(r.Context(), req.toInput(), principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, agg)
}

// ListEvents godoc
// @Summary List events
// @Description Paginated listing. status defaults to active (events that have not ended).
// @Tags events
// @Produce json
// @Param page query int false "Page (1-based)" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Param type query int false "Event type id"
// @Param lieu query int false "Venue id"
// @Param wilaya query int false "Wilaya id"
// @Param organisateur query int false "Organizer user id"
// @Param date_debut query string false "Events starting on or after (YYYY-MM-DD)"
// @Param date_fin query string false "Events ending on or before (YYYY-MM-DD)"
// @Param status query string false "active, past or upcoming"
// @Param search query string false "Case-insensitive match on name and description"
// @Success 200 {object} controllers.EventPageResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	filter, err := helpers.ParseEventFilter(r)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	result, err := c.Listing.List(r.Context(), filter, page)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetEvent godoc
// @Summary Get an event with all its relations
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventAggregateResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	agg, err := c.Assembler.GetFull(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, agg)
}

// UpdateEvent godoc
// @Summary Update an event's scalar fields
// @Description Organizer or administrator only. Omitted fields are left unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventAggregateResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	agg, err := c.Events.Update(r.Context(), eventID, req.toPatch(), principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, agg)
}

// DeleteEvent godoc
// @Summary Delete an event and everything attached to it
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Events.Delete(r.Context(), eventID, principal.Actor()); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachWork godoc
// @Summary Attach a work to an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param work body domain.WorkInput true "Work"
// @Success 201 {object} helpers.APIResponse "data is the event work"
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 409 {object} helpers.APIErrorResponse "already attached"
// @Router /events/{id}/works [post]
func (c *EventController) AttachWork(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.WorkInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ew, err := c.Events.AttachWork(r.Context(), eventID, req, principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ew)
}

// AttachOrganization godoc
// @Summary Attach a partner organization to an event
// @Description role defaults to partner.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param organization body domain.OrganizationInput true "Organization"
// @Success 201 {object} helpers.APIResponse "data is the event organization"
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 409 {object} helpers.APIErrorResponse "already attached"
// @Router /events/{id}/organizations [post]
func (c *EventController) AttachOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.OrganizationInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	eo, err := c.Events.AttachOrganization(r.Context(), eventID, req, principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, eo)
}
