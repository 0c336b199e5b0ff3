package services

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"heritagecatalog/internal/domain"
)

var errFakeStorage = errors.New("fake storage failure")

type pairKey [2]int64

// fakeStore is an in-memory database shared by the fake repositories. Its unit of work
// snapshots every table and restores them when fn fails.
type fakeStore struct {
	mu sync.Mutex

	nextEventID   int64
	nextProgramID int64

	events         map[int64]*domain.Event
	participations map[pairKey]*domain.Participation
	eventWorks     map[pairKey]*domain.EventWork
	eventOrgs      map[pairKey]*domain.EventOrganization
	programs       map[int64]*domain.Program
	speakers       map[int64][]int64

	venues     map[int64]*domain.Venue
	eventTypes map[int64]*domain.EventType
	users      map[int64]*domain.UserSummary
	works      map[int64]*domain.Work
	orgs       map[int64]*domain.Organization
	media      map[int64][]*domain.Media

	// failOn makes the named repository operation return the error.
	failOn map[string]error
	// lastFilter is the filter received by the last Events.List call.
	lastFilter domain.EventFilter
	commits    int
	rollbacks  int
}

func newFakeStore() *fakeStore {
	wilaya := &domain.Wilaya{ID: 31, Code: "31", Name: "Oran"}
	commune := &domain.Commune{ID: 1, Name: "Oran", Daira: &domain.Daira{ID: 1, Name: "Oran", Wilaya: wilaya}}
	return &fakeStore{
		nextEventID:    1,
		nextProgramID:  1,
		events:         map[int64]*domain.Event{},
		participations: map[pairKey]*domain.Participation{},
		eventWorks:     map[pairKey]*domain.EventWork{},
		eventOrgs:      map[pairKey]*domain.EventOrganization{},
		programs:       map[int64]*domain.Program{},
		speakers:       map[int64][]int64{},
		venues: map[int64]*domain.Venue{
			5: {ID: 5, Name: "Théâtre de Verdure", Commune: commune},
			6: {ID: 6, Name: "Palais de la Culture", Commune: commune},
		},
		eventTypes: map[int64]*domain.EventType{2: {ID: 2, Name: "Festival"}, 3: {ID: 3, Name: "Exposition"}},
		users: map[int64]*domain.UserSummary{
			1: {ID: 1, LastName: "Admin", FirstName: "Root", Email: "admin@example.dz"},
			7: {ID: 7, LastName: "Benali", FirstName: "Amina", Email: "amina@example.dz"},
			8: {ID: 8, LastName: "Haddad", FirstName: "Karim", Email: "karim@example.dz"},
			9: {ID: 9, LastName: "Saidi", FirstName: "Lina", Email: "lina@example.dz"},
		},
		works: map[int64]*domain.Work{
			10: {ID: 10, Title: "Nedjma"},
			11: {ID: 11, Title: "L'Incendie"},
		},
		orgs:   map[int64]*domain.Organization{12: {ID: 12, Name: "Office National de la Culture"}},
		media:  map[int64][]*domain.Media{},
		failOn: map[string]error{},
	}
}

func (s *fakeStore) fail(op string) error {
	return s.failOn[op]
}

type fakeSnapshot struct {
	nextEventID, nextProgramID int64
	events                     map[int64]*domain.Event
	participations             map[pairKey]*domain.Participation
	eventWorks                 map[pairKey]*domain.EventWork
	eventOrgs                  map[pairKey]*domain.EventOrganization
	programs                   map[int64]*domain.Program
	speakers                   map[int64][]int64
}

func (s *fakeStore) snapshot() fakeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fakeSnapshot{
		nextEventID:    s.nextEventID,
		nextProgramID:  s.nextProgramID,
		events:         maps.Clone(s.events),
		participations: maps.Clone(s.participations),
		eventWorks:     maps.Clone(s.eventWorks),
		eventOrgs:      maps.Clone(s.eventOrgs),
		programs:       maps.Clone(s.programs),
		speakers:       maps.Clone(s.speakers),
	}
}

func (s *fakeStore) restore(snap fakeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID = snap.nextEventID
	s.nextProgramID = snap.nextProgramID
	s.events = snap.events
	s.participations = snap.participations
	s.eventWorks = snap.eventWorks
	s.eventOrgs = snap.eventOrgs
	s.programs = snap.programs
	s.speakers = snap.speakers
}

func (s *fakeStore) repositories() *domain.Repositories {
	return &domain.Repositories{
		Events:             &fakeEventRepo{s},
		Participations:     &fakeParticipationRepo{s},
		EventWorks:         &fakeEventWorkRepo{s},
		EventOrganizations: &fakeEventOrgRepo{s},
		Programs:           &fakeProgramRepo{s},
		References:         &fakeReferenceRepo{s},
	}
}

// Do implements domain.UnitOfWork.
func (s *fakeStore) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if err := s.fail("uow.begin"); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s.repositories()); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

// addEvent seeds an event directly.
func (s *fakeStore) addEvent(e domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.nextEventID
	}
	if e.ID >= s.nextEventID {
		s.nextEventID = e.ID + 1
	}
	s.events[e.ID] = &e
	return &e
}

func (s *fakeStore) addParticipation(p domain.Participation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participations[pairKey{p.EventID, p.UserID}] = &p
}

func (s *fakeStore) participation(eventID, userID int64) *domain.Participation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.participations[pairKey{eventID, userID}]
}

func (s *fakeStore) countWhere(eventID int64) (works, participants, orgs, programs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.eventWorks {
		if k[0] == eventID {
			works++
		}
	}
	for k := range s.participations {
		if k[0] == eventID {
			participants++
		}
	}
	for k := range s.eventOrgs {
		if k[0] == eventID {
			orgs++
		}
	}
	for _, p := range s.programs {
		if p.EventID == eventID {
			programs++
		}
	}
	return
}

type fakeEventRepo struct{ s *fakeStore }

func (r *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if err := r.s.fail("events.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.venues[e.VenueID] == nil || r.s.eventTypes[e.EventTypeID] == nil || r.s.users[e.OrganizerID] == nil {
		return domain.ErrReferentialIntegrity
	}
	e.ID = r.s.nextEventID
	r.s.nextEventID++
	stored := *e
	r.s.events[e.ID] = &stored
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (r *fakeEventRepo) GetDetail(ctx context.Context, id int64) (*domain.EventDetail, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return &domain.EventDetail{
		Event:     e,
		Venue:     r.s.venues[e.VenueID],
		EventType: r.s.eventTypes[e.EventTypeID],
		Organizer: r.s.users[e.OrganizerID],
	}, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	if err := r.s.fail("events.update"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := patch.Apply(*e)
	if r.s.venues[updated.VenueID] == nil || r.s.eventTypes[updated.EventTypeID] == nil {
		return nil, domain.ErrReferentialIntegrity
	}
	r.s.events[id] = &updated
	out := updated
	return &out, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.fail("events.delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.events, id)
	maps.DeleteFunc(r.s.participations, func(k pairKey, _ *domain.Participation) bool { return k[0] == id })
	maps.DeleteFunc(r.s.eventWorks, func(k pairKey, _ *domain.EventWork) bool { return k[0] == id })
	maps.DeleteFunc(r.s.eventOrgs, func(k pairKey, _ *domain.EventOrganization) bool { return k[0] == id })
	maps.DeleteFunc(r.s.programs, func(_ int64, p *domain.Program) bool { return p.EventID == id })
	return nil
}

// List applies the temporal window the way the SQL repository does and paginates by id.
// Other filter criteria are left to the SQL repository tests.
func (r *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	if err := r.s.fail("events.list"); err != nil {
		return nil, 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastFilter = filter
	var ids []int64
	for _, id := range slices.Sorted(maps.Keys(r.s.events)) {
		if inTemporalWindow(r.s.events[id], filter.Status, filter.Now) {
			ids = append(ids, id)
		}
	}
	total := len(ids)
	out := []*domain.EventSummary{}
	for i := page.Offset(); i < total && len(out) < page.PageSize; i++ {
		e := *r.s.events[ids[i]]
		out = append(out, &domain.EventSummary{Event: &e, VenueName: r.s.venues[e.VenueID].Name})
	}
	return out, total, nil
}

// inTemporalWindow mirrors the status conditions of the SQL listing query.
// An event without dates is active and neither past nor upcoming.
func inTemporalWindow(e *domain.Event, status domain.TemporalStatus, now time.Time) bool {
	end := e.EndDate
	if end == nil {
		end = e.StartDate
	}
	switch status {
	case domain.TemporalActive:
		return end == nil || !end.Before(now)
	case domain.TemporalPast:
		return end != nil && end.Before(now)
	case domain.TemporalUpcoming:
		return e.StartDate != nil && e.StartDate.After(now)
	}
	return true
}

type fakeParticipationRepo struct{ s *fakeStore }

func (r *fakeParticipationRepo) Create(ctx context.Context, p *domain.Participation) error {
	if err := r.s.fail("participations.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.events[p.EventID] == nil || r.s.users[p.UserID] == nil {
		return domain.ErrReferentialIntegrity
	}
	key := pairKey{p.EventID, p.UserID}
	if _, ok := r.s.participations[key]; ok {
		return domain.ErrConflict
	}
	stored := *p
	r.s.participations[key] = &stored
	return nil
}

func (r *fakeParticipationRepo) Get(ctx context.Context, eventID, userID int64) (*domain.Participation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participations[pairKey{eventID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (r *fakeParticipationRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.ParticipationDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.ParticipationDetail{}
	for k, p := range r.s.participations {
		if k[0] == eventID {
			cp := *p
			out = append(out, &domain.ParticipationDetail{Participation: &cp, User: r.s.users[p.UserID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeParticipationRepo) UpdateStatus(ctx context.Context, eventID, userID int64, change domain.StatusChange) (*domain.Participation, error) {
	if err := r.s.fail("participations.update_status"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{eventID, userID}
	p, ok := r.s.participations[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Status != change.From {
		return nil, domain.ErrConflict
	}
	updated := *p
	updated.Status = change.To
	if change.Notes != nil {
		updated.Notes = change.Notes
	}
	at, by := change.ValidatedAt, change.ValidatedBy
	updated.ValidatedAt = &at
	updated.ValidatedBy = &by
	r.s.participations[key] = &updated
	out := updated
	return &out, nil
}

func (r *fakeParticipationRepo) DeleteWithdrawable(ctx context.Context, eventID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{eventID, userID}
	p, ok := r.s.participations[key]
	if !ok || !p.Status.Withdrawable() {
		return false, nil
	}
	delete(r.s.participations, key)
	return true, nil
}

type fakeEventWorkRepo struct{ s *fakeStore }

func (r *fakeEventWorkRepo) Create(ctx context.Context, ew *domain.EventWork) error {
	if err := r.s.fail("event_works.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.events[ew.EventID] == nil || r.s.works[ew.WorkID] == nil {
		return domain.ErrReferentialIntegrity
	}
	if ew.PresenterID != nil && r.s.users[*ew.PresenterID] == nil {
		return domain.ErrReferentialIntegrity
	}
	key := pairKey{ew.EventID, ew.WorkID}
	if _, ok := r.s.eventWorks[key]; ok {
		return domain.ErrConflict
	}
	stored := *ew
	r.s.eventWorks[key] = &stored
	return nil
}

func (r *fakeEventWorkRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventWorkDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.EventWorkDetail{}
	for k, ew := range r.s.eventWorks {
		if k[0] != eventID {
			continue
		}
		cp := *ew
		d := &domain.EventWorkDetail{EventWork: &cp, Work: r.s.works[ew.WorkID]}
		if ew.PresenterID != nil {
			d.Presenter = r.s.users[*ew.PresenterID]
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkID < out[j].WorkID })
	return out, nil
}

type fakeEventOrgRepo struct{ s *fakeStore }

func (r *fakeEventOrgRepo) Create(ctx context.Context, eo *domain.EventOrganization) error {
	if err := r.s.fail("event_organizations.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.events[eo.EventID] == nil || r.s.orgs[eo.OrganizationID] == nil {
		return domain.ErrReferentialIntegrity
	}
	key := pairKey{eo.EventID, eo.OrganizationID}
	if _, ok := r.s.eventOrgs[key]; ok {
		return domain.ErrConflict
	}
	stored := *eo
	r.s.eventOrgs[key] = &stored
	return nil
}

func (r *fakeEventOrgRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventOrganizationDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.EventOrganizationDetail{}
	for k, eo := range r.s.eventOrgs {
		if k[0] == eventID {
			cp := *eo
			out = append(out, &domain.EventOrganizationDetail{EventOrganization: &cp, Organization: r.s.orgs[eo.OrganizationID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrganizationID < out[j].OrganizationID })
	return out, nil
}

type fakeProgramRepo struct{ s *fakeStore }

func (r *fakeProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	if err := r.s.fail("programs.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.events[p.EventID] == nil {
		return domain.ErrReferentialIntegrity
	}
	p.ID = r.s.nextProgramID
	r.s.nextProgramID++
	stored := *p
	r.s.programs[p.ID] = &stored
	return nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id int64) (*domain.Program, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.programs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// ListByEventID returns programs in insertion order; display ordering is the caller's job.
func (r *fakeProgramRepo) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Program, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.Program{}
	for _, id := range slices.Sorted(maps.Keys(r.s.programs)) {
		if p := r.s.programs[id]; p.EventID == eventID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) AttachSpeakers(ctx context.Context, programID int64, userIDs []int64) error {
	if err := r.s.fail("programs.attach_speakers"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range userIDs {
		if r.s.users[id] == nil {
			return domain.ErrReferentialIntegrity
		}
	}
	current := slices.Clone(r.s.speakers[programID])
	for _, id := range userIDs {
		if !slices.Contains(current, id) {
			current = append(current, id)
		}
	}
	r.s.speakers[programID] = current
	return nil
}

func (r *fakeProgramRepo) ListSpeakers(ctx context.Context, programIDs []int64) (map[int64][]*domain.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[int64][]*domain.UserSummary{}
	for _, pid := range programIDs {
		for _, uid := range r.s.speakers[pid] {
			out[pid] = append(out[pid], r.s.users[uid])
		}
	}
	return out, nil
}

type fakeReferenceRepo struct{ s *fakeStore }

func (r *fakeReferenceRepo) MissingIDs(ctx context.Context, entity string, ids []int64) ([]int64, error) {
	if err := r.s.fail("references.missing_ids"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exists := func(id int64) bool {
		switch entity {
		case domain.EntityVenue:
			return r.s.venues[id] != nil
		case domain.EntityEventType:
			return r.s.eventTypes[id] != nil
		case domain.EntityUser:
			return r.s.users[id] != nil
		case domain.EntityWork:
			return r.s.works[id] != nil
		case domain.EntityOrganization:
			return r.s.orgs[id] != nil
		}
		return false
	}
	missing := []int64{}
	for _, id := range slices.Compact(slices.Sorted(slices.Values(ids))) {
		if !exists(id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *fakeReferenceRepo) GetUser(ctx context.Context, id int64) (*domain.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeReferenceRepo) ListMediaByEventID(ctx context.Context, eventID int64) ([]*domain.Media, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.media[eventID]), nil
}

// fakeEmailService records the notifications it is asked to send.
type fakeEmailService struct {
	mu          sync.Mutex
	statuses    []*domain.ParticipationStatusEmailData
	enrollments []*domain.EnrollmentEmailData
	err         error
}

func (f *fakeEmailService) SendParticipationStatus(ctx context.Context, data *domain.ParticipationStatusEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, data)
	return f.err
}

func (f *fakeEmailService) SendEnrollment(ctx context.Context, data *domain.EnrollmentEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments = append(f.enrollments, data)
	return f.err
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
