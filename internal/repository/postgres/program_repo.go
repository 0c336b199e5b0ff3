package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"heritagecatalog/internal/domain"
)

const programColumns = `id_programme, id_evenement, titre, description, heure_debut, heure_fin, type_activite, ordre,
	date_creation, date_modification`

type programRepository struct {
	DB DBTX
}

func NewProgramRepository(db DBTX) domain.ProgramRepository {
	return &programRepository{
		DB: db,
	}
}

func scanProgram(s rowScanner) (*domain.Program, error) {
	p := &domain.Program{}
	var (
		desc, activity sql.NullString
		start, end     sql.NullTime
		order          sql.NullInt64
	)
	if err := s.Scan(&p.ID, &p.EventID, &p.Title, &desc, &start, &end, &activity, &order, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = stringPtr(desc)
	p.StartTime = timePtr(start)
	p.EndTime = timePtr(end)
	p.ActivityType = stringPtr(activity)
	p.Order = intPtr(order)
	return p, nil
}

func (r *programRepository) Create(ctx context.Context, p *domain.Program) error {
	query := `
		INSERT INTO programmes (id_evenement, titre, description, heure_debut, heure_fin, type_activite, ordre,
			date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id_programme
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.EventID, p.Title, p.Description, p.StartTime, p.EndTime, p.ActivityType, p.Order, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	return translateError(err)
}

func (r *programRepository) GetByID(ctx context.Context, id int64) (*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programmes WHERE id_programme = $1`
	p, err := scanProgram(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

func (r *programRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programmes
		WHERE id_evenement = $1
		ORDER BY ordre ASC NULLS LAST, heure_debut ASC NULLS LAST, id_programme ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	programs := make([]*domain.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// AttachSpeakers is idempotent: pairs already present are skipped by ON CONFLICT.
func (r *programRepository) AttachSpeakers(ctx context.Context, programID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO programme_intervenants (id_programme, id_user)
		SELECT $1, speaker FROM unnest($2::bigint[]) AS speaker
		ON CONFLICT (id_programme, id_user) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, programID, pq.Array(userIDs))
	return translateError(err)
}

func (r *programRepository) ListSpeakers(ctx context.Context, programIDs []int64) (map[int64][]*domain.UserSummary, error) {
	out := make(map[int64][]*domain.UserSummary)
	if len(programIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT pi.id_programme, u.id_user, u.nom, u.prenom, u.email
		FROM programme_intervenants pi
		INNER JOIN users u ON u.id_user = pi.id_user
		WHERE pi.id_programme = ANY($1)
		ORDER BY pi.id_programme, u.nom, u.prenom
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(programIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var programID int64
		u := &domain.UserSummary{}
		if err := rows.Scan(&programID, &u.ID, &u.LastName, &u.FirstName, &u.Email); err != nil {
			return nil, err
		}
		out[programID] = append(out[programID], u)
	}
	return out, rows.Err()
}
