package services

import (
	"context"
	"fmt"
	"time"

	"heritagecatalog/internal/domain"
)

type programService struct {
	repos          *domain.Repositories
	uow            domain.UnitOfWork
	now            func() time.Time
	contextTimeout time.Duration
}

// NewProgramService returns the service managing an event's agenda.
func NewProgramService(repos *domain.Repositories, uow domain.UnitOfWork, timeout time.Duration) domain.ProgramService {
	return &programService{
		repos:          repos,
		uow:            uow,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *programService) AddProgram(ctx context.Context, eventID int64, input domain.ProgramInput, actor domain.Actor) (*domain.ProgramWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v := &domain.ValidationError{}
	input.Validate(v, "")
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, eventID, actor); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.repos.References, referenceCheck{domain.EntityUser, input.SpeakerIDs}); err != nil {
		return nil, err
	}

	var program *domain.Program
	err := s.uow.Do(ctx, func(repos *domain.Repositories) error {
		var err error
		program, err = insertProgram(ctx, repos, eventID, input, s.now())
		return err
	})
	if err != nil {
		return nil, aggregateError("add program to", err)
	}
	return s.load(ctx, program)
}

func (s *programService) AttachSpeakers(ctx context.Context, programID int64, userIDs []int64, actor domain.Actor) (*domain.ProgramWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(userIDs) == 0 {
		return nil, domain.NewValidationError("intervenants", "at least one user id is required")
	}
	for _, id := range userIDs {
		if id <= 0 {
			return nil, domain.NewValidationError("intervenants", "identifiers must be positive")
		}
	}

	program, err := s.repos.Programs.GetByID(ctx, programID)
	if err != nil {
		return nil, lookupError("program", err)
	}
	if err := s.authorize(ctx, program.EventID, actor); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.repos.References, referenceCheck{domain.EntityUser, userIDs}); err != nil {
		return nil, err
	}
	if err := s.repos.Programs.AttachSpeakers(ctx, programID, userIDs); err != nil {
		return nil, fmt.Errorf("attach speakers: %w", err)
	}
	return s.load(ctx, program)
}

func (s *programService) ListPrograms(ctx context.Context, eventID int64) ([]*domain.ProgramWithSpeakers, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.repos.Events.GetByID(ctx, eventID); err != nil {
		return nil, lookupError("event", err)
	}
	return listPrograms(ctx, s.repos.Programs, eventID)
}

func (s *programService) authorize(ctx context.Context, eventID int64, actor domain.Actor) error {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return lookupError("event", err)
	}
	if !event.ManagedBy(actor) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *programService) load(ctx context.Context, program *domain.Program) (*domain.ProgramWithSpeakers, error) {
	speakers, err := s.repos.Programs.ListSpeakers(ctx, []int64{program.ID})
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	return &domain.ProgramWithSpeakers{Program: program, Speakers: nonNil(speakers[program.ID])}, nil
}

// insertProgram writes one program row and its speakers through repos.
func insertProgram(ctx context.Context, repos *domain.Repositories, eventID int64, input domain.ProgramInput, now time.Time) (*domain.Program, error) {
	program := domain.NewProgram(eventID, input, now)
	if err := repos.Programs.Create(ctx, program); err != nil {
		return nil, fmt.Errorf("create program %q: %w", input.Title, err)
	}
	if err := repos.Programs.AttachSpeakers(ctx, program.ID, input.SpeakerIDs); err != nil {
		return nil, fmt.Errorf("attach speakers to program %d: %w", program.ID, err)
	}
	return program, nil
}

// listPrograms loads an event's programs with their speakers in display order.
func listPrograms(ctx context.Context, programs domain.ProgramRepository, eventID int64) ([]*domain.ProgramWithSpeakers, error) {
	rows, err := programs.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	ids := make([]int64, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	speakers, err := programs.ListSpeakers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	out := make([]*domain.ProgramWithSpeakers, 0, len(rows))
	for _, p := range rows {
		out = append(out, &domain.ProgramWithSpeakers{Program: p, Speakers: nonNil(speakers[p.ID])})
	}
	domain.SortPrograms(out)
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
