package services

import (
	"context"
	"fmt"
	"time"

	"heritagecatalog/internal/domain"
)

type eventListingService struct {
	eventRepo      domain.EventRepository
	now            func() time.Time
	contextTimeout time.Duration
}

// NewEventListingService returns the filtered, paginated event listing.
func NewEventListingService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventListingService {
	return &eventListingService{
		eventRepo:      eventRepo,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *eventListingService) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if filter.Status == "" {
		filter.Status = domain.TemporalActive
	}
	filter.Now = s.now()

	events, total, err := s.eventRepo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &domain.EventPage{
		Events:     nonNil(events),
		Pagination: domain.NewPageMeta(page.Page, page.PageSize, total),
	}, nil
}
