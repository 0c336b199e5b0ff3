package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"heritagecatalog/internal/domain"
)

// PostgreSQL error codes translated into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run inside or outside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewRepositories builds every repository on top of db.
func NewRepositories(db DBTX) *domain.Repositories {
	return &domain.Repositories{
		Events:             NewEventRepository(db),
		Participations:     NewParticipationRepository(db),
		EventWorks:         NewEventWorkRepository(db),
		EventOrganizations: NewEventOrganizationRepository(db),
		Programs:           NewProgramRepository(db),
		References:         NewReferenceRepository(db),
	}
}

// translateError maps constraint violations to domain errors and leaves everything else untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrReferentialIntegrity, pqErr.Constraint)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Constraint)
		case pgStringTooLong:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Message)
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
