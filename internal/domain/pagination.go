package domain

import (
	"strings"
	"time"
)

// Pagination defaults and limits for list queries.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Validate rejects non-positive pages and page sizes outside 1..MaxPageSize.
func (p PaginationParams) Validate() error {
	v := &ValidationError{}
	if p.Page < 1 {
		v.Add("page", "must be a positive integer")
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		v.Add("limit", "must be between 1 and %d", MaxPageSize)
	}
	return v.OrNil()
}

// TemporalStatus classifies an event against the current time.
type TemporalStatus string

const (
	// TemporalActive matches events that have not ended yet.
	TemporalActive TemporalStatus = "active"
	// TemporalPast matches events that ended strictly before now.
	TemporalPast TemporalStatus = "past"
	// TemporalUpcoming matches events that start strictly after now.
	TemporalUpcoming TemporalStatus = "upcoming"
)

// Valid reports whether s is a known temporal status.
func (s TemporalStatus) Valid() bool {
	switch s {
	case TemporalActive, TemporalPast, TemporalUpcoming:
		return true
	}
	return false
}

// EventFilter selects events for the listing. Zero-valued fields do not filter.
// All set criteria combine with AND.
type EventFilter struct {
	EventTypeID int64
	VenueID     int64
	OrganizerID int64
	WilayaID    int64
	StartFrom   *time.Time
	EndUntil    *time.Time
	Status      TemporalStatus
	Search      string
	// Now is the reference time for Status; set by the listing service.
	Now time.Time
}

// Validate checks the filter values that cannot be expressed by the type system.
func (f EventFilter) Validate() error {
	v := &ValidationError{}
	if f.Status != "" && !f.Status.Valid() {
		v.Add("status", "must be one of active, past, upcoming")
	}
	if f.StartFrom != nil && f.EndUntil != nil && f.EndUntil.Before(*f.StartFrom) {
		v.Add("date_fin", "must not precede date_debut")
	}
	if f.EventTypeID < 0 || f.VenueID < 0 || f.OrganizerID < 0 || f.WilayaID < 0 {
		v.Add("filter", "identifiers must be positive")
	}
	return v.OrNil()
}

// SearchPattern returns the ILIKE pattern for Search with LIKE metacharacters escaped.
func (f EventFilter) SearchPattern() string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(f.Search)) + "%"
}

// PageMeta is the pagination block of a list response.
// swagger:model PageMeta
type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewPageMeta builds PageMeta from the current page, page size, and total count.
// Pages is computed as ceiling(total / pageSize); if pageSize is 0, Pages is 0.
func NewPageMeta(page, pageSize, total int) PageMeta {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return PageMeta{Total: total, Page: page, Pages: pages, Limit: pageSize}
}

// EventPage is one page of the event listing.
// swagger:model EventPage
type EventPage struct {
	Events     []*EventSummary `json:"evenements"`
	Pagination PageMeta        `json:"pagination"`
}
