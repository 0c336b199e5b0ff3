package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"heritagecatalog/internal/domain"
)

const eventColumns = `e.id_evenement, e.nom_evenement, e.description, e.date_debut, e.date_fin, e.id_lieu,
	e.id_type_evenement, e.id_user, e.contact_email, e.contact_telephone, e.image_url,
	e.date_creation, e.date_modification`

// venueHierarchyJoin joins a venue up to its wilaya. Every event has a venue, every venue a commune.
const venueHierarchyJoin = `
	INNER JOIN lieux l ON l.id_lieu = e.id_lieu
	INNER JOIN communes c ON c.id_commune = l.commune_id
	INNER JOIN dairas d ON d.id_daira = c.daira_id
	INNER JOIN wilayas w ON w.id_wilaya = d.wilaya_id`

type eventRepository struct {
	DB DBTX
}

func NewEventRepository(db DBTX) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// eventRow holds the nullable columns of an events row while scanning.
type eventRow struct {
	e            domain.Event
	description  sql.NullString
	startDate    sql.NullTime
	endDate      sql.NullTime
	contactEmail sql.NullString
	contactPhone sql.NullString
	imageURL     sql.NullString
}

func (r *eventRow) dest() []any {
	return []any{
		&r.e.ID, &r.e.Name, &r.description, &r.startDate, &r.endDate, &r.e.VenueID,
		&r.e.EventTypeID, &r.e.OrganizerID, &r.contactEmail, &r.contactPhone, &r.imageURL,
		&r.e.CreatedAt, &r.e.UpdatedAt,
	}
}

func (r *eventRow) event() *domain.Event {
	e := r.e
	e.Description = stringPtr(r.description)
	e.StartDate = timePtr(r.startDate)
	e.EndDate = timePtr(r.endDate)
	e.ContactEmail = stringPtr(r.contactEmail)
	e.ContactPhone = stringPtr(r.contactPhone)
	e.ImageURL = stringPtr(r.imageURL)
	return &e
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	var row eventRow
	if err := s.Scan(row.dest()...); err != nil {
		return nil, err
	}
	return row.event(), nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO evenements (nom_evenement, description, date_debut, date_fin, id_lieu, id_type_evenement,
			id_user, contact_email, contact_telephone, image_url, date_creation, date_modification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id_evenement
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.StartDate, e.EndDate, e.VenueID, e.EventTypeID,
		e.OrganizerID, e.ContactEmail, e.ContactPhone, e.ImageURL, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return translateError(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM evenements e
		WHERE e.id_evenement = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return e, nil
}

func (r *eventRepository) GetDetail(ctx context.Context, id int64) (*domain.EventDetail, error) {
	query := `
		SELECT ` + eventColumns + `,
			l.id_lieu, l.nom, l.adresse, c.id_commune, c.nom, d.id_daira, d.nom, w.id_wilaya, w.code, w.nom,
			t.id_type_evenement, t.nom_type,
			u.id_user, u.nom, u.prenom, u.email
		FROM evenements e` + venueHierarchyJoin + `
		INNER JOIN type_evenements t ON t.id_type_evenement = e.id_type_evenement
		INNER JOIN users u ON u.id_user = e.id_user
		WHERE e.id_evenement = $1
	`
	var (
		row     eventRow
		address sql.NullString
		wilaya  = &domain.Wilaya{}
		daira   = &domain.Daira{Wilaya: wilaya}
		commune = &domain.Commune{Daira: daira}
		venue   = &domain.Venue{Commune: commune}
		evType  = &domain.EventType{}
		org     = &domain.UserSummary{}
	)
	dest := append(row.dest(),
		&venue.ID, &venue.Name, &address, &commune.ID, &commune.Name, &daira.ID, &daira.Name,
		&wilaya.ID, &wilaya.Code, &wilaya.Name,
		&evType.ID, &evType.Name,
		&org.ID, &org.LastName, &org.FirstName, &org.Email,
	)
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		return nil, translateError(err)
	}
	venue.Address = stringPtr(address)
	return &domain.EventDetail{
		Event:     row.event(),
		Venue:     venue,
		EventType: evType,
		Organizer: org,
	}, nil
}

func (r *eventRepository) Update(ctx context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"date_modification = NOW()"}
	args := []any{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		set("nom_evenement", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.StartDate != nil {
		set("date_debut", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set("date_fin", *patch.EndDate)
	}
	if patch.VenueID != nil {
		set("id_lieu", *patch.VenueID)
	}
	if patch.EventTypeID != nil {
		set("id_type_evenement", *patch.EventTypeID)
	}
	if patch.ContactEmail != nil {
		set("contact_email", *patch.ContactEmail)
	}
	if patch.ContactPhone != nil {
		set("contact_telephone", *patch.ContactPhone)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE evenements e SET %s
		WHERE e.id_evenement = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM evenements WHERE id_evenement = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildEventWhere renders the WHERE clause for filter. Placeholders start at $1.
func buildEventWhere(f domain.EventFilter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.EventTypeID > 0 {
		conds = append(conds, "e.id_type_evenement = "+arg(f.EventTypeID))
	}
	if f.VenueID > 0 {
		conds = append(conds, "e.id_lieu = "+arg(f.VenueID))
	}
	if f.OrganizerID > 0 {
		conds = append(conds, "e.id_user = "+arg(f.OrganizerID))
	}
	if f.WilayaID > 0 {
		conds = append(conds, "w.id_wilaya = "+arg(f.WilayaID))
	}
	if f.StartFrom != nil {
		conds = append(conds, "e.date_debut >= "+arg(*f.StartFrom))
	}
	if f.EndUntil != nil {
		conds = append(conds, "e.date_fin <= "+arg(*f.EndUntil))
	}
	switch f.Status {
	case domain.TemporalActive:
		// Undated events stay listed as active.
		conds = append(conds, "(COALESCE(e.date_fin, e.date_debut) IS NULL OR COALESCE(e.date_fin, e.date_debut) >= "+arg(f.Now)+")")
	case domain.TemporalPast:
		conds = append(conds, "COALESCE(e.date_fin, e.date_debut) < "+arg(f.Now))
	case domain.TemporalUpcoming:
		conds = append(conds, "e.date_debut > "+arg(f.Now))
	}
	if strings.TrimSpace(f.Search) != "" {
		p := arg(f.SearchPattern())
		conds = append(conds, "(e.nom_evenement ILIKE "+p+" OR e.description ILIKE "+p+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.EventSummary, int, error) {
	where, args := buildEventWhere(filter)

	countQuery := `SELECT COUNT(*) FROM evenements e` + venueHierarchyJoin + `
		` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	if total == 0 || page.Offset() >= total {
		return []*domain.EventSummary{}, total, nil
	}

	limitArg := len(args) + 1
	listQuery := fmt.Sprintf(`
		SELECT %s, l.nom, w.id_wilaya, w.nom, t.nom_type
		FROM evenements e%s
		INNER JOIN type_evenements t ON t.id_type_evenement = e.id_type_evenement
		%s
		ORDER BY e.date_debut ASC NULLS LAST, e.id_evenement ASC
		LIMIT $%d OFFSET $%d
	`, eventColumns, venueHierarchyJoin, where, limitArg, limitArg+1)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	events := make([]*domain.EventSummary, 0, page.PageSize)
	for rows.Next() {
		var row eventRow
		s := &domain.EventSummary{}
		dest := append(row.dest(), &s.VenueName, &s.WilayaID, &s.WilayaName, &s.EventTypeName)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		s.Event = row.event()
		events = append(events, s)
	}
	return events, total, rows.Err()
}
