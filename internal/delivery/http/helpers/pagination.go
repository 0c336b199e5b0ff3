package helpers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"heritagecatalog/internal/domain"
)

// ParsePagination reads page and limit from the request query string.
// Missing values fall back to defaults; malformed or out of range values are a validation error.
func ParsePagination(r *http.Request) (domain.PaginationParams, error) {
	q := r.URL.Query()
	v := &domain.ValidationError{}
	params := domain.PaginationParams{
		Page:     intParam(q, "page", domain.DefaultPage, v),
		PageSize: intParam(q, "limit", domain.DefaultPageSize, v),
	}
	if err := v.OrNil(); err != nil {
		return params, err
	}
	return params, params.Validate()
}

// ParseEventFilter reads the listing filters: type, lieu, wilaya, organisateur,
// date_debut, date_fin, status and search. Dates accept RFC 3339 or YYYY-MM-DD;
// a bare date_fin covers the whole day.
func ParseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	v := &domain.ValidationError{}
	f := domain.EventFilter{
		EventTypeID: idParam(q, "type", v),
		VenueID:     idParam(q, "lieu", v),
		WilayaID:    idParam(q, "wilaya", v),
		OrganizerID: idParam(q, "organisateur", v),
		StartFrom:   dateParam(q, "date_debut", false, v),
		EndUntil:    dateParam(q, "date_fin", true, v),
		Status:      domain.TemporalStatus(strings.TrimSpace(q.Get("status"))),
		Search:      strings.TrimSpace(q.Get("search")),
	}
	if err := v.OrNil(); err != nil {
		return f, err
	}
	return f, f.Validate()
}

func intParam(q url.Values, name string, def int, v *domain.ValidationError) int {
	s := q.Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		v.Add(name, "must be an integer")
		return def
	}
	return n
}

func idParam(q url.Values, name string, v *domain.ValidationError) int64 {
	s := q.Get(name)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		v.Add(name, "must be a positive integer")
		return 0
	}
	return id
}

func dateParam(q url.Values, name string, endOfDay bool, v *domain.ValidationError) *time.Time {
	s := q.Get(name)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		if endOfDay {
			// Last instant PostgreSQL can store before the next day.
			t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		return &t
	}
	v.Add(name, "must be a date (YYYY-MM-DD or RFC 3339)")
	return nil
}
