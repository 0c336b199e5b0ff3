package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"heritagecatalog/internal/domain"
)

const participationColumns = `p.id_evenement, p.id_user, p.role_participation, p.statut, p.date_inscription,
	p.notes, p.date_validation, p.valide_par`

// nonWithdrawableStatuses are the statuses a participant can no longer withdraw from.
var nonWithdrawableStatuses = []string{string(domain.StatusPresent), string(domain.StatusAbsent)}

type participationRepository struct {
	DB DBTX
}

func NewParticipationRepository(db DBTX) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

type participationRow struct {
	p           domain.Participation
	notes       sql.NullString
	validatedAt sql.NullTime
	validatedBy sql.NullInt64
}

func (r *participationRow) dest() []any {
	return []any{
		&r.p.EventID, &r.p.UserID, &r.p.Role, &r.p.Status, &r.p.EnrolledAt,
		&r.notes, &r.validatedAt, &r.validatedBy,
	}
}

func (r *participationRow) participation() *domain.Participation {
	p := r.p
	p.Notes = stringPtr(r.notes)
	p.ValidatedAt = timePtr(r.validatedAt)
	p.ValidatedBy = int64Ptr(r.validatedBy)
	return &p
}

// Create relies on the (id_evenement, id_user) primary key: a concurrent duplicate enrollment
// fails here with ErrConflict whatever the callers checked beforehand.
func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO evenement_users (id_evenement, id_user, role_participation, statut, date_inscription, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query, p.EventID, p.UserID, p.Role, string(p.Status), p.EnrolledAt, p.Notes)
	return translateError(err)
}

func (r *participationRepository) Get(ctx context.Context, eventID, userID int64) (*domain.Participation, error) {
	query := `
		SELECT ` + participationColumns + `
		FROM evenement_users p
		WHERE p.id_evenement = $1 AND p.id_user = $2
	`
	var row participationRow
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(row.dest()...); err != nil {
		return nil, translateError(err)
	}
	return row.participation(), nil
}

func (r *participationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.ParticipationDetail, error) {
	query := `
		SELECT ` + participationColumns + `, u.id_user, u.nom, u.prenom, u.email
		FROM evenement_users p
		INNER JOIN users u ON u.id_user = p.id_user
		WHERE p.id_evenement = $1
		ORDER BY p.date_inscription, p.id_user
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.ParticipationDetail, 0)
	for rows.Next() {
		var row participationRow
		u := &domain.UserSummary{}
		if err := rows.Scan(append(row.dest(), &u.ID, &u.LastName, &u.FirstName, &u.Email)...); err != nil {
			return nil, err
		}
		out = append(out, &domain.ParticipationDetail{Participation: row.participation(), User: u})
	}
	return out, rows.Err()
}

func (r *participationRepository) UpdateStatus(ctx context.Context, eventID, userID int64, change domain.StatusChange) (*domain.Participation, error) {
	query := `
		UPDATE evenement_users p
		SET statut = $3, notes = COALESCE($4, p.notes), date_validation = $5, valide_par = $6
		WHERE p.id_evenement = $1 AND p.id_user = $2 AND p.statut = $7
		RETURNING ` + participationColumns
	var row participationRow
	err := r.DB.QueryRowContext(ctx, query,
		eventID, userID, string(change.To), change.Notes, change.ValidatedAt, change.ValidatedBy, string(change.From),
	).Scan(row.dest()...)
	if err == nil {
		return row.participation(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, translateError(err)
	}
	// Either the row is gone or its status moved since it was read.
	if _, getErr := r.Get(ctx, eventID, userID); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (r *participationRepository) DeleteWithdrawable(ctx context.Context, eventID, userID int64) (bool, error) {
	query := `
		DELETE FROM evenement_users
		WHERE id_evenement = $1 AND id_user = $2 AND statut <> ALL($3)
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID, pq.Array(nonWithdrawableStatuses))
	if err != nil {
		return false, translateError(err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
