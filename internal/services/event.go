package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"heritagecatalog/internal/domain"
)

type eventService struct {
	repos          *domain.Repositories
	uow            domain.UnitOfWork
	assembler      domain.EventAssembler
	now            func() time.Time
	contextTimeout time.Duration
}

// NewEventService returns the service orchestrating writes to the event aggregate.
// Multi-row writes run through uow; reads and single-row attaches use repos directly.
func NewEventService(
	repos *domain.Repositories,
	uow domain.UnitOfWork,
	assembler domain.EventAssembler,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		repos:          repos,
		uow:            uow,
		assembler:      assembler,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, input domain.CreateEventInput, actor domain.Actor) (*domain.EventAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.UserID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.repos.References, createReferences(input)...); err != nil {
		return nil, err
	}

	now := s.now()
	var eventID int64
	err := s.uow.Do(ctx, func(repos *domain.Repositories) error {
		event := domain.NewEvent(input.Name, input.VenueID, input.EventTypeID, actor.UserID, now, now)
		event.Description = input.Description
		event.StartDate = input.StartDate
		event.EndDate = input.EndDate
		event.ContactEmail = input.ContactEmail
		event.ContactPhone = input.ContactPhone
		event.ImageURL = input.ImageURL
		if err := repos.Events.Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		eventID = event.ID

		for _, w := range input.Works {
			if err := repos.EventWorks.Create(ctx, newEventWork(eventID, w, now)); err != nil {
				return fmt.Errorf("attach work %d: %w", w.WorkID, err)
			}
		}
		for _, p := range input.Participants {
			if err := repos.Participations.Create(ctx, domain.NewParticipation(eventID, p.UserID, p.Role, now)); err != nil {
				return fmt.Errorf("enroll user %d: %w", p.UserID, err)
			}
		}
		for _, o := range input.Organizations {
			if err := repos.EventOrganizations.Create(ctx, newEventOrganization(eventID, o, now)); err != nil {
				return fmt.Errorf("attach organization %d: %w", o.OrganizationID, err)
			}
		}
		for _, p := range input.Programs {
			if _, err := insertProgram(ctx, repos, eventID, p, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, &domain.AggregateWriteError{Op: "create", Err: err}
	}
	return s.assembler.GetFull(ctx, eventID)
}

func (s *eventService) Update(ctx context.Context, eventID int64, patch domain.EventPatch, actor domain.Actor) (*domain.EventAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	err := s.uow.Do(ctx, func(repos *domain.Repositories) error {
		event, err := repos.Events.GetByID(ctx, eventID)
		if err != nil {
			return lookupError("event", err)
		}
		if !event.ManagedBy(actor) {
			return domain.ErrForbidden
		}
		merged := patch.Apply(*event)
		if merged.StartDate != nil && merged.EndDate != nil && merged.EndDate.Before(*merged.StartDate) {
			return domain.NewValidationError("date_fin", "must not precede date_debut")
		}
		var checks []referenceCheck
		if patch.VenueID != nil {
			checks = append(checks, referenceCheck{domain.EntityVenue, []int64{*patch.VenueID}})
		}
		if patch.EventTypeID != nil {
			checks = append(checks, referenceCheck{domain.EntityEventType, []int64{*patch.EventTypeID}})
		}
		if err := checkReferences(ctx, repos.References, checks...); err != nil {
			return err
		}
		if _, err := repos.Events.Update(ctx, eventID, patch); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, aggregateError("update", err)
	}
	return s.assembler.GetFull(ctx, eventID)
}

func (s *eventService) Delete(ctx context.Context, eventID int64, actor domain.Actor) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.uow.Do(ctx, func(repos *domain.Repositories) error {
		event, err := repos.Events.GetByID(ctx, eventID)
		if err != nil {
			return lookupError("event", err)
		}
		if !event.ManagedBy(actor) {
			return domain.ErrForbidden
		}
		// Child rows go with the event through ON DELETE CASCADE.
		if err := repos.Events.Delete(ctx, eventID); err != nil {
			return lookupError("event", err)
		}
		return nil
	})
	if err != nil {
		return aggregateError("delete", err)
	}
	return nil
}

func (s *eventService) AttachWork(ctx context.Context, eventID int64, work domain.WorkInput, actor domain.Actor) (*domain.EventWork, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v := &domain.ValidationError{}
	validateWork(v, "", work)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, eventID, actor); err != nil {
		return nil, err
	}
	checks := []referenceCheck{{domain.EntityWork, []int64{work.WorkID}}}
	if work.PresenterID != nil {
		checks = append(checks, referenceCheck{domain.EntityUser, []int64{*work.PresenterID}})
	}
	if err := checkReferences(ctx, s.repos.References, checks...); err != nil {
		return nil, err
	}

	ew := newEventWork(eventID, work, s.now())
	if err := s.repos.EventWorks.Create(ctx, ew); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: work %d is already attached to event %d", domain.ErrConflict, work.WorkID, eventID)
		}
		return nil, fmt.Errorf("attach work: %w", err)
	}
	return ew, nil
}

func (s *eventService) AttachOrganization(ctx context.Context, eventID int64, org domain.OrganizationInput, actor domain.Actor) (*domain.EventOrganization, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	v := &domain.ValidationError{}
	if org.OrganizationID <= 0 {
		v.Add("id_organisation", "is required")
	}
	v.CheckLength("role", strings.TrimSpace(org.Role), domain.MaxRoleLength)
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, eventID, actor); err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, s.repos.References, referenceCheck{domain.EntityOrganization, []int64{org.OrganizationID}}); err != nil {
		return nil, err
	}

	eo := newEventOrganization(eventID, org, s.now())
	if err := s.repos.EventOrganizations.Create(ctx, eo); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: organization %d is already attached to event %d", domain.ErrConflict, org.OrganizationID, eventID)
		}
		return nil, fmt.Errorf("attach organization: %w", err)
	}
	return eo, nil
}

func (s *eventService) authorize(ctx context.Context, eventID int64, actor domain.Actor) error {
	event, err := s.repos.Events.GetByID(ctx, eventID)
	if err != nil {
		return lookupError("event", err)
	}
	if !event.ManagedBy(actor) {
		return domain.ErrForbidden
	}
	return nil
}

func newEventWork(eventID int64, w domain.WorkInput, now time.Time) *domain.EventWork {
	return &domain.EventWork{
		EventID:     eventID,
		WorkID:      w.WorkID,
		PresenterID: w.PresenterID,
		Description: w.Description,
		CreatedAt:   now,
	}
}

func newEventOrganization(eventID int64, o domain.OrganizationInput, now time.Time) *domain.EventOrganization {
	role := strings.TrimSpace(o.Role)
	if role == "" {
		role = domain.DefaultOrganizationRole
	}
	return &domain.EventOrganization{
		EventID:        eventID,
		OrganizationID: o.OrganizationID,
		Role:           role,
		CreatedAt:      now,
	}
}

func validateCreateInput(in domain.CreateEventInput) error {
	v := &domain.ValidationError{}
	if in.Name == "" {
		v.Add("nom_evenement", "is required")
	}
	v.CheckLength("nom_evenement", in.Name, domain.MaxNameLength)
	if in.VenueID <= 0 {
		v.Add("id_lieu", "is required")
	}
	if in.EventTypeID <= 0 {
		v.Add("id_type_evenement", "is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		v.Add("date_fin", "must not precede date_debut")
	}
	validateContact(v, in.ContactEmail, in.ContactPhone, in.ImageURL)

	works := make(map[int64]bool, len(in.Works))
	for i, w := range in.Works {
		prefix := fmt.Sprintf("works[%d].", i)
		validateWork(v, prefix, w)
		if works[w.WorkID] {
			v.Add(prefix+"id_oeuvre", "work %d is listed more than once", w.WorkID)
		}
		works[w.WorkID] = true
	}
	users := make(map[int64]bool, len(in.Participants))
	for i, p := range in.Participants {
		field := fmt.Sprintf("participants[%d].id_user", i)
		if p.UserID <= 0 {
			v.Add(field, "is required")
		} else if users[p.UserID] {
			v.Add(field, "user %d is listed more than once", p.UserID)
		}
		users[p.UserID] = true
		v.CheckLength(fmt.Sprintf("participants[%d].role", i), strings.TrimSpace(p.Role), domain.MaxRoleLength)
	}
	orgs := make(map[int64]bool, len(in.Organizations))
	for i, o := range in.Organizations {
		field := fmt.Sprintf("organizations[%d].id_organisation", i)
		if o.OrganizationID <= 0 {
			v.Add(field, "is required")
		} else if orgs[o.OrganizationID] {
			v.Add(field, "organization %d is listed more than once", o.OrganizationID)
		}
		orgs[o.OrganizationID] = true
		v.CheckLength(fmt.Sprintf("organizations[%d].role", i), strings.TrimSpace(o.Role), domain.MaxRoleLength)
	}
	for i, p := range in.Programs {
		p.Validate(v, fmt.Sprintf("programs[%d].", i))
	}
	return v.OrNil()
}

func validateWork(v *domain.ValidationError, prefix string, w domain.WorkInput) {
	if w.WorkID <= 0 {
		v.Add(prefix+"id_oeuvre", "is required")
	}
	if w.PresenterID != nil && *w.PresenterID <= 0 {
		v.Add(prefix+"id_presentateur", "must be a positive identifier")
	}
}

func validatePatch(p domain.EventPatch) error {
	v := &domain.ValidationError{}
	if p.Name != nil {
		if *p.Name == "" {
			v.Add("nom_evenement", "must not be empty")
		}
		v.CheckLength("nom_evenement", *p.Name, domain.MaxNameLength)
	}
	if p.VenueID != nil && *p.VenueID <= 0 {
		v.Add("id_lieu", "must be a positive identifier")
	}
	if p.EventTypeID != nil && *p.EventTypeID <= 0 {
		v.Add("id_type_evenement", "must be a positive identifier")
	}
	validateContact(v, p.ContactEmail, p.ContactPhone, p.ImageURL)
	return v.OrNil()
}

func validateContact(v *domain.ValidationError, email, phone, imageURL *string) {
	v.CheckOptionalLength("contact_email", email, domain.MaxEmailLength)
	v.CheckOptionalLength("contact_telephone", phone, domain.MaxPhoneLength)
	v.CheckOptionalLength("image_url", imageURL, domain.MaxURLLength)
	if email == nil || *email == "" {
		return
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		v.Add("contact_email", "is not a valid address")
	}
}

type referenceCheck struct {
	entity string
	ids    []int64
}

// createReferences lists every foreign id a create request points at, in reporting order.
func createReferences(in domain.CreateEventInput) []referenceCheck {
	var works, users, orgs []int64
	for _, w := range in.Works {
		works = append(works, w.WorkID)
		if w.PresenterID != nil {
			users = append(users, *w.PresenterID)
		}
	}
	for _, p := range in.Participants {
		users = append(users, p.UserID)
	}
	for _, p := range in.Programs {
		users = append(users, p.SpeakerIDs...)
	}
	for _, o := range in.Organizations {
		orgs = append(orgs, o.OrganizationID)
	}
	return []referenceCheck{
		{domain.EntityVenue, []int64{in.VenueID}},
		{domain.EntityEventType, []int64{in.EventTypeID}},
		{domain.EntityWork, works},
		{domain.EntityUser, users},
		{domain.EntityOrganization, orgs},
	}
}

// checkReferences returns a ReferenceError for the first entity kind with unknown ids.
func checkReferences(ctx context.Context, refs domain.ReferenceRepository, checks ...referenceCheck) error {
	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		missing, err := refs.MissingIDs(ctx, c.entity, c.ids)
		if err != nil {
			return fmt.Errorf("check %s references: %w", c.entity, err)
		}
		if len(missing) > 0 {
			return &domain.ReferenceError{Entity: c.entity, IDs: missing}
		}
	}
	return nil
}

// aggregateError passes business rule failures through unchanged and reports anything
// else raised inside a unit of work as an AggregateWriteError.
func aggregateError(op string, err error) error {
	for _, known := range []error{
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrValidation,
		domain.ErrReferentialIntegrity,
		domain.ErrConflict,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &domain.AggregateWriteError{Op: op, Err: err}
}
