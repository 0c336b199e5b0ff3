package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"heritagecatalog/internal/delivery/http/helpers"
	"heritagecatalog/internal/delivery/http/middleware"
	"heritagecatalog/internal/domain"
)

const maxRoleLength = 50

// EnrollRequest is the request body for POST /events/{id}/participants.
type EnrollRequest struct {
	Role  string  `json:"role"`
	Notes *string `json:"notes"`
}

// Validate implements helpers.Validator.
func (e EnrollRequest) Validate(v *domain.ValidationError) {
	if len(strings.TrimSpace(e.Role)) > maxRoleLength {
		v.Add("role", "must be at most %d characters", maxRoleLength)
	}
}

// SetStatusRequest is the request body for PATCH /events/{id}/participants/{userId}.
type SetStatusRequest struct {
	Status domain.ParticipationStatus `json:"statut"`
	Notes  *string                    `json:"notes"`
}

// Validate implements helpers.Validator.
func (s SetStatusRequest) Validate(v *domain.ValidationError) {
	if s.Status == "" {
		v.Add("statut", "is required")
	}
}

// ParticipationResponse is the success envelope for endpoints returning one participation.
type ParticipationResponse struct {
	Success bool                  `json:"success"`
	Data    *domain.Participation `json:"data"`
}

// ParticipantsResponse is the success envelope for GET /events/{id}/participants.
type ParticipantsResponse struct {
	Success bool                          `json:"success"`
	Data    []*domain.ParticipationDetail `json:"data"`
}

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// Enroll godoc
// @Summary Enroll the caller in an event
// @Description Creates an inscrit participation. role defaults to participant.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body EnrollRequest true "Role and notes"
// @Success 201 {object} controllers.ParticipationResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 409 {object} helpers.APIErrorResponse "already enrolled"
// @Router /events/{id}/participants [post]
func (c *ParticipationController) Enroll(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req EnrollRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.Enroll(r.Context(), eventID, principal.UserID, strings.TrimSpace(req.Role), req.Notes)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, p)
}

// Withdraw godoc
// @Summary Withdraw the caller from an event
// @Description Refused once attendance has been recorded (present or absent).
// @Tags participants
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 409 {object} helpers.APIErrorResponse
// @Router /events/{id}/participants/me [delete]
func (c *ParticipationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Withdraw(r.Context(), eventID, principal.UserID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetStatus godoc
// @Summary Change a participant's status
// @Description Organizer or administrator only. Allowed targets depend on the current status.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param userId path int true "Participant user ID"
// @Param body body SetStatusRequest true "New status (confirme, present, absent, annule) and notes"
// @Success 200 {object} controllers.ParticipationResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 401 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 409 {object} helpers.APIErrorResponse "transition not allowed"
// @Router /events/{id}/participants/{userId} [patch]
func (c *ParticipationController) SetStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := helpers.PathID(w, r, "userId")
	if !ok {
		return
	}
	var req SetStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.SetStatus(r.Context(), eventID, userID, req.Status, req.Notes, principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// ListParticipants godoc
// @Summary List an event's participants
// @Tags participants
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.ParticipantsResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Router /events/{id}/participants [get]
func (c *ParticipationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	rows, err := c.Service.ListParticipants(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rows)
}
