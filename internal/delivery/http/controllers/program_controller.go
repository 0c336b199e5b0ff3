package controllers

import (
	"log/slog"
	"net/http"

	"heritagecatalog/internal/delivery/http/helpers"
	"heritagecatalog/internal/delivery/http/middleware"
	"heritagecatalog/internal/domain"
)

// AttachSpeakersRequest is the request body for POST /programs/{id}/speakers.
type AttachSpeakersRequest struct {
	UserIDs []int64 `json:"intervenants"`
}

// Validate implements helpers.Validator.
func (a AttachSpeakersRequest) Validate(v *domain.ValidationError) {
	if len(a.UserIDs) == 0 {
		v.Add("intervenants", "at least one user id is required")
	}
}

// ProgramResponse is the success envelope for endpoints returning one program.
type ProgramResponse struct {
	Success bool                        `json:"success"`
	Data    *domain.ProgramWithSpeakers `json:"data"`
}

// ProgramsResponse is the success envelope for GET /events/{id}/programs.
type ProgramsResponse struct {
	Success bool                          `json:"success"`
	Data    []*domain.ProgramWithSpeakers `json:"data"`
}

type ProgramController struct {
	Logger  *slog.Logger
	Service domain.ProgramService
}

func NewProgramController(logger *slog.Logger, svc domain.ProgramService) *ProgramController {
	return &ProgramController{
		Logger:  logger,
		Service: svc,
	}
}

// AddProgram godoc
// @Summary Add an agenda entry to an event
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param program body domain.ProgramInput true "Program with speaker ids"
// @Success 201 {object} controllers.ProgramResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Failure 500 {object} helpers.APIErrorResponse
// @Router /events/{id}/programs [post]
func (c *ProgramController) AddProgram(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req domain.ProgramInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.AddProgram(r.Context(), eventID, req, principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, p)
}

// ListPrograms godoc
// @Summary List an event's agenda in display order
// @Tags programs
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.ProgramsResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Router /events/{id}/programs [get]
func (c *ProgramController) ListPrograms(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	programs, err := c.Service.ListPrograms(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, programs)
}

// AttachSpeakers godoc
// @Summary Add speakers to a program
// @Description Idempotent: speakers already attached are kept once.
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param body body AttachSpeakersRequest true "Speaker user ids"
// @Success 200 {object} controllers.ProgramResponse
// @Failure 400 {object} helpers.APIErrorResponse
// @Failure 403 {object} helpers.APIErrorResponse
// @Failure 404 {object} helpers.APIErrorResponse
// @Router /programs/{id}/speakers [post]
func (c *ProgramController) AttachSpeakers(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	programID, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req AttachSpeakersRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.AttachSpeakers(r.Context(), programID, req.UserIDs, principal.Actor())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}
