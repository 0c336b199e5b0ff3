package postgres

import (
	"context"
	"database/sql"

	"heritagecatalog/internal/domain"
)

type eventWorkRepository struct {
	DB DBTX
}

func NewEventWorkRepository(db DBTX) domain.EventWorkRepository {
	return &eventWorkRepository{DB: db}
}

func (r *eventWorkRepository) Create(ctx context.Context, ew *domain.EventWork) error {
	query := `
		INSERT INTO evenement_oeuvres (id_evenement, id_oeuvre, id_presentateur, description_presentation, date_creation)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, ew.EventID, ew.WorkID, ew.PresenterID, ew.Description, ew.CreatedAt)
	return translateError(err)
}

func (r *eventWorkRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventWorkDetail, error) {
	query := `
		SELECT eo.id_evenement, eo.id_oeuvre, eo.id_presentateur, eo.description_presentation, eo.date_creation,
			o.titre, o.annee_creation, o.type_oeuvre,
			p.nom, p.prenom, p.email
		FROM evenement_oeuvres eo
		INNER JOIN oeuvres o ON o.id_oeuvre = eo.id_oeuvre
		LEFT JOIN users p ON p.id_user = eo.id_presentateur
		WHERE eo.id_evenement = $1
		ORDER BY eo.date_creation, eo.id_oeuvre
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.EventWorkDetail, 0)
	for rows.Next() {
		ew := &domain.EventWork{}
		work := &domain.Work{}
		var (
			presenterID           sql.NullInt64
			desc, kind            sql.NullString
			year                  sql.NullInt64
			pLast, pFirst, pEmail sql.NullString
		)
		if err := rows.Scan(&ew.EventID, &ew.WorkID, &presenterID, &desc, &ew.CreatedAt,
			&work.Title, &year, &kind,
			&pLast, &pFirst, &pEmail); err != nil {
			return nil, err
		}
		ew.PresenterID = int64Ptr(presenterID)
		ew.Description = stringPtr(desc)
		work.ID = ew.WorkID
		work.Year = intPtr(year)
		work.Kind = stringPtr(kind)
		d := &domain.EventWorkDetail{EventWork: ew, Work: work}
		if presenterID.Valid {
			d.Presenter = &domain.UserSummary{ID: presenterID.Int64, LastName: pLast.String, FirstName: pFirst.String, Email: pEmail.String}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type eventOrganizationRepository struct {
	DB DBTX
}

func NewEventOrganizationRepository(db DBTX) domain.EventOrganizationRepository {
	return &eventOrganizationRepository{DB: db}
}

func (r *eventOrganizationRepository) Create(ctx context.Context, eo *domain.EventOrganization) error {
	query := `
		INSERT INTO evenement_organisations (id_evenement, id_organisation, role, date_creation)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, eo.EventID, eo.OrganizationID, eo.Role, eo.CreatedAt)
	return translateError(err)
}

func (r *eventOrganizationRepository) ListByEventID(ctx context.Context, eventID int64) ([]*domain.EventOrganizationDetail, error) {
	query := `
		SELECT eo.id_evenement, eo.id_organisation, eo.role, eo.date_creation, o.nom, o.site_web
		FROM evenement_organisations eo
		INNER JOIN organisations o ON o.id_organisation = eo.id_organisation
		WHERE eo.id_evenement = $1
		ORDER BY o.nom
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.EventOrganizationDetail, 0)
	for rows.Next() {
		eo := &domain.EventOrganization{}
		org := &domain.Organization{}
		var site sql.NullString
		if err := rows.Scan(&eo.EventID, &eo.OrganizationID, &eo.Role, &eo.CreatedAt, &org.Name, &site); err != nil {
			return nil, err
		}
		org.ID = eo.OrganizationID
		org.Site = stringPtr(site)
		out = append(out, &domain.EventOrganizationDetail{EventOrganization: eo, Organization: org})
	}
	return out, rows.Err()
}
