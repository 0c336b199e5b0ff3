package domain

import "context"

// Repositories bundles the repository handles services depend on.
// Inside a unit of work every handle is bound to the same transaction.
type Repositories struct {
	Events             EventRepository
	Participations     ParticipationRepository
	EventWorks         EventWorkRepository
	EventOrganizations EventOrganizationRepository
	Programs           ProgramRepository
	References         ReferenceRepository
}

// UnitOfWork runs fn against repositories bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}
