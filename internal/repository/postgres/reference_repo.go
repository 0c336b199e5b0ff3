package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"heritagecatalog/internal/domain"
)

// referenceTables maps entity kinds to their table and primary key column.
var referenceTables = map[string]struct{ table, column string }{
	domain.EntityVenue:        {"lieux", "id_lieu"},
	domain.EntityEventType:    {"type_evenements", "id_type_evenement"},
	domain.EntityUser:         {"users", "id_user"},
	domain.EntityWork:         {"oeuvres", "id_oeuvre"},
	domain.EntityOrganization: {"organisations", "id_organisation"},
}

type referenceRepository struct {
	DB DBTX
}

func NewReferenceRepository(db DBTX) domain.ReferenceRepository {
	return &referenceRepository{DB: db}
}

func (r *referenceRepository) MissingIDs(ctx context.Context, entity string, ids []int64) ([]int64, error) {
	ref, ok := referenceTables[entity]
	if !ok {
		return nil, fmt.Errorf("unknown reference entity %q", entity)
	}
	ids = slices.Compact(slices.Sorted(slices.Values(ids)))
	if len(ids) == 0 {
		return []int64{}, nil
	}
	query := fmt.Sprintf(`
		SELECT req.id
		FROM unnest($1::bigint[]) AS req(id)
		WHERE NOT EXISTS (SELECT 1 FROM %s t WHERE t.%s = req.id)
		ORDER BY req.id
	`, ref.table, ref.column)
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("check %s references: %w", entity, err)
	}
	defer rows.Close()
	missing := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (r *referenceRepository) GetUser(ctx context.Context, id int64) (*domain.UserSummary, error) {
	query := `SELECT id_user, nom, prenom, email FROM users WHERE id_user = $1`
	u := &domain.UserSummary{}
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.LastName, &u.FirstName, &u.Email); err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *referenceRepository) ListMediaByEventID(ctx context.Context, eventID int64) ([]*domain.Media, error) {
	query := `
		SELECT id_media, type_media, url, titre
		FROM medias
		WHERE id_evenement = $1
		ORDER BY id_media
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	media := make([]*domain.Media, 0)
	for rows.Next() {
		m := &domain.Media{}
		var title sql.NullString
		if err := rows.Scan(&m.ID, &m.Kind, &m.URL, &title); err != nil {
			return nil, err
		}
		m.Title = stringPtr(title)
		media = append(media, m)
	}
	return media, rows.Err()
}
