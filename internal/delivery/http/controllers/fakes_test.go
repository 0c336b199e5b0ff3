package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"heritagecatalog/internal/delivery/http/helpers"
	"heritagecatalog/internal/delivery/http/middleware"
	"heritagecatalog/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var organizer = &domain.Principal{UserID: 7, Email: "karim@example.dz"}

// fakeEventService implements domain.EventService, domain.EventAssembler and
// domain.EventListingService for handler tests.
type fakeEventService struct {
	err error

	aggregate *domain.EventAggregate
	page      *domain.EventPage

	lastInput   domain.CreateEventInput
	lastPatch   domain.EventPatch
	lastEventID int64
	lastActor   domain.Actor
	lastWork    domain.WorkInput
	lastOrg     domain.OrganizationInput
	lastFilter  domain.EventFilter
	lastPage    domain.PaginationParams
	calls       int
}

func (f *fakeEventService) Create(_ context.Context, input domain.CreateEventInput, actor domain.Actor) (*domain.EventAggregate, error) {
	f.calls++
	f.lastInput, f.lastActor = input, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.aggregate, nil
}

func (f *fakeEventService) Update(_ context.Context, eventID int64, patch domain.EventPatch, actor domain.Actor) (*domain.EventAggregate, error) {
	f.calls++
	f.lastEventID, f.lastPatch, f.lastActor = eventID, patch, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.aggregate, nil
}

func (f *fakeEventService) Delete(_ context.Context, eventID int64, actor domain.Actor) error {
	f.calls++
	f.lastEventID, f.lastActor = eventID, actor
	return f.err
}

func (f *fakeEventService) AttachWork(_ context.Context, eventID int64, work domain.WorkInput, actor domain.Actor) (*domain.EventWork, error) {
	f.calls++
	f.lastEventID, f.lastWork, f.lastActor = eventID, work, actor
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventWork{EventID: eventID, WorkID: work.WorkID, PresenterID: work.PresenterID}, nil
}

func (f *fakeEventService) AttachOrganization(_ context.Context, eventID int64, org domain.OrganizationInput, actor domain.Actor) (*domain.EventOrganization, error) {
	f.calls++
	f.lastEventID, f.lastOrg, f.lastActor = eventID, org, actor
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EventOrganization{EventID: eventID, OrganizationID: org.OrganizationID, Role: org.Role}, nil
}

func (f *fakeEventService) GetFull(_ context.Context, eventID int64) (*domain.EventAggregate, error) {
	f.calls++
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.aggregate, nil
}

func (f *fakeEventService) List(_ context.Context, filter domain.EventFilter, page domain.PaginationParams) (*domain.EventPage, error) {
	f.calls++
	f.lastFilter, f.lastPage = filter, page
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

// fakeParticipationService implements domain.ParticipationService.
type fakeParticipationService struct {
	err    error
	result *domain.Participation
	rows   []*domain.ParticipationDetail

	lastEventID int64
	lastUserID  int64
	lastRole    string
	lastNotes   *string
	lastStatus  domain.ParticipationStatus
	lastActor   domain.Actor
	calls       int
}

func (f *fakeParticipationService) Enroll(_ context.Context, eventID, userID int64, role string, notes *string) (*domain.Participation, error) {
	f.calls++
	f.lastEventID, f.lastUserID, f.lastRole, f.lastNotes = eventID, userID, role, notes
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeParticipationService) Withdraw(_ context.Context, eventID, userID int64) error {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	return f.err
}

func (f *fakeParticipationService) SetStatus(_ context.Context, eventID, userID int64, status domain.ParticipationStatus, notes *string, actor domain.Actor) (*domain.Participation, error) {
	f.calls++
	f.lastEventID, f.lastUserID, f.lastStatus, f.lastNotes, f.lastActor = eventID, userID, status, notes, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeParticipationService) ListParticipants(_ context.Context, eventID int64) ([]*domain.ParticipationDetail, error) {
	f.calls++
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

// fakeProgramService implements domain.ProgramService.
type fakeProgramService struct {
	err      error
	result   *domain.ProgramWithSpeakers
	programs []*domain.ProgramWithSpeakers

	lastEventID   int64
	lastProgramID int64
	lastInput     domain.ProgramInput
	lastUserIDs   []int64
	lastActor     domain.Actor
	calls         int
}

func (f *fakeProgramService) AddProgram(_ context.Context, eventID int64, input domain.ProgramInput, actor domain.Actor) (*domain.ProgramWithSpeakers, error) {
	f.calls++
	f.lastEventID, f.lastInput, f.lastActor = eventID, input, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProgramService) AttachSpeakers(_ context.Context, programID int64, userIDs []int64, actor domain.Actor) (*domain.ProgramWithSpeakers, error) {
	f.calls++
	f.lastProgramID, f.lastUserIDs, f.lastActor = programID, userIDs, actor
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProgramService) ListPrograms(_ context.Context, eventID int64) ([]*domain.ProgramWithSpeakers, error) {
	f.calls++
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.programs, nil
}

// serve routes req through a mux so path values are populated, optionally as principal.
func serve(pattern string, handler http.HandlerFunc, req *http.Request, principal *domain.Principal) *httptest.ResponseRecorder {
	if principal != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), principal))
	}
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// decodeData unmarshals the data field of a success envelope into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func decodeFailure(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIErrorResponse {
	t.Helper()
	var envelope helpers.APIErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	require.False(t, envelope.Success)
	return envelope
}
