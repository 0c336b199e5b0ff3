package services

import (
	"context"
	"testing"
	"time"

	"heritagecatalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgramService(store *fakeStore) domain.ProgramService {
	svc := NewProgramService(store.repositories(), store, time.Second)
	svc.(*programService).now = fixedClock
	return svc
}

func TestProgramService_AddProgram(t *testing.T) {
	at := time.Date(2025, 7, 5, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   domain.ProgramInput
		actor   domain.Actor
		eventID int64
		wantErr error
	}{
		{
			name:    "organizer adds entry with speakers",
			input:   domain.ProgramInput{Title: "Ouverture", StartTime: &at, Order: intPtr(1), SpeakerIDs: []int64{8, 9}},
			actor:   domain.Actor{UserID: 7},
			eventID: 3,
		},
		{name: "missing title", input: domain.ProgramInput{}, actor: domain.Actor{UserID: 7}, eventID: 3, wantErr: domain.ErrValidation},
		{name: "blank title", input: domain.ProgramInput{Title: " \t "}, actor: domain.Actor{UserID: 7}, eventID: 3, wantErr: domain.ErrValidation},
		{name: "negative order", input: domain.ProgramInput{Title: "x", Order: intPtr(-1)}, actor: domain.Actor{UserID: 7}, eventID: 3, wantErr: domain.ErrValidation},
		{name: "unknown event", input: domain.ProgramInput{Title: "x"}, actor: domain.Actor{UserID: 7}, eventID: 404, wantErr: domain.ErrNotFound},
		{name: "forbidden", input: domain.ProgramInput{Title: "x"}, actor: domain.Actor{UserID: 8}, eventID: 3, wantErr: domain.ErrForbidden},
		{name: "unknown speaker", input: domain.ProgramInput{Title: "x", SpeakerIDs: []int64{404}}, actor: domain.Actor{UserID: 7}, eventID: 3, wantErr: domain.ErrReferentialIntegrity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedFestival(store)
			svc := newTestProgramService(store)

			got, err := svc.AddProgram(context.Background(), tt.eventID, tt.input, tt.actor)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.programs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(3), got.EventID)
			assert.Equal(t, fixedNow, got.CreatedAt)
			require.Len(t, got.Speakers, 2)
			assert.Equal(t, "Karim", got.Speakers[0].FirstName)
		})
	}
}

func TestProgramService_AddProgram_RollsBackSpeakerFailure(t *testing.T) {
	store := newFakeStore()
	seedFestival(store)
	store.failOn["programs.attach_speakers"] = errFakeStorage
	svc := newTestProgramService(store)

	_, err := svc.AddProgram(context.Background(), 3, domain.ProgramInput{Title: "Ouverture", SpeakerIDs: []int64{8}}, domain.Actor{UserID: 7})
	require.ErrorIs(t, err, domain.ErrAggregateWrite)
	assert.Empty(t, store.programs)
}

func TestProgramService_AttachSpeakers(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedFestival(store)
	svc := newTestProgramService(store)

	p, err := svc.AddProgram(ctx, 3, domain.ProgramInput{Title: "Table ronde", SpeakerIDs: []int64{8}}, domain.Actor{UserID: 7})
	require.NoError(t, err)

	got, err := svc.AttachSpeakers(ctx, p.ID, []int64{8, 9}, domain.Actor{UserID: 7})
	require.NoError(t, err)
	assert.Len(t, got.Speakers, 2)

	got, err = svc.AttachSpeakers(ctx, p.ID, []int64{9}, domain.Actor{UserID: 7})
	require.NoError(t, err, "attaching an attached speaker is a no-op")
	assert.Len(t, got.Speakers, 2)

	_, err = svc.AttachSpeakers(ctx, p.ID, []int64{9}, domain.Actor{UserID: 8})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.AttachSpeakers(ctx, p.ID, nil, domain.Actor{UserID: 7})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AttachSpeakers(ctx, p.ID, []int64{404}, domain.Actor{UserID: 7})
	require.ErrorIs(t, err, domain.ErrReferentialIntegrity)

	_, err = svc.AttachSpeakers(ctx, 999, []int64{9}, domain.Actor{UserID: 7})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProgramService_ListPrograms_Ordering(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	seedFestival(store)
	svc := newTestProgramService(store)
	actor := domain.Actor{UserID: 7}
	early := time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC)
	late := time.Date(2025, 7, 5, 20, 0, 0, 0, time.UTC)

	for _, in := range []domain.ProgramInput{
		{Title: "sans ordre"},
		{Title: "trois", Order: intPtr(3)},
		{Title: "un tard", Order: intPtr(1), StartTime: &late},
		{Title: "deux", Order: intPtr(2)},
		{Title: "un tôt", Order: intPtr(1), StartTime: &early},
	} {
		_, err := svc.AddProgram(ctx, 3, in, actor)
		require.NoError(t, err)
	}

	got, err := svc.ListPrograms(ctx, 3)
	require.NoError(t, err)
	titles := make([]string, 0, len(got))
	for _, p := range got {
		titles = append(titles, p.Title)
		assert.NotNil(t, p.Speakers)
	}
	assert.Equal(t, []string{"un tôt", "un tard", "deux", "trois", "sans ordre"}, titles)

	_, err = svc.ListPrograms(ctx, 404)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
