package services

import (
	"context"
	"fmt"
	"time"

	"heritagecatalog/internal/domain"
)

type eventAssembler struct {
	repos          *domain.Repositories
	contextTimeout time.Duration
}

// NewEventAssembler returns the read-only builder of the complete event view.
func NewEventAssembler(repos *domain.Repositories, timeout time.Duration) domain.EventAssembler {
	return &eventAssembler{repos: repos, contextTimeout: timeout}
}

func (a *eventAssembler) GetFull(ctx context.Context, eventID int64) (*domain.EventAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, a.contextTimeout)
	defer cancel()

	detail, err := a.repos.Events.GetDetail(ctx, eventID)
	if err != nil {
		return nil, lookupError("event", err)
	}

	programs, err := listPrograms(ctx, a.repos.Programs, eventID)
	if err != nil {
		return nil, err
	}
	works, err := a.repos.EventWorks.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	participants, err := a.repos.Participations.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	organizations, err := a.repos.EventOrganizations.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	media, err := a.repos.References.ListMediaByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}

	return &domain.EventAggregate{
		Event:         detail.Event,
		Venue:         detail.Venue,
		EventType:     detail.EventType,
		Organizer:     detail.Organizer,
		Programs:      programs,
		Works:         nonNil(works),
		Participants:  nonNil(participants),
		Organizations: nonNil(organizations),
		Media:         nonNil(media),
	}, nil
}
