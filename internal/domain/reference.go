package domain

import "context"

// Wilaya is the top level of the administrative hierarchy (the region).
type Wilaya struct {
	ID   int64  `json:"id_wilaya"`
	Code string `json:"code"`
	Name string `json:"nom"`
}

// Daira groups communes inside a wilaya.
type Daira struct {
	ID     int64   `json:"id_daira"`
	Name   string  `json:"nom"`
	Wilaya *Wilaya `json:"wilaya"`
}

// Commune is the lowest administrative level a venue belongs to.
type Commune struct {
	ID    int64  `json:"id_commune"`
	Name  string `json:"nom"`
	Daira *Daira `json:"daira"`
}

// Venue is a place where events happen, with its administrative hierarchy.
// swagger:model Venue
type Venue struct {
	ID      int64    `json:"id_lieu"`
	Name    string   `json:"nom"`
	Address *string  `json:"adresse"`
	Commune *Commune `json:"commune"`
}

// EventType classifies events (festival, exhibition, ...).
type EventType struct {
	ID   int64  `json:"id_type_evenement"`
	Name string `json:"nom_type"`
}

// UserSummary is the public projection of a user embedded in aggregate views.
// swagger:model UserSummary
type UserSummary struct {
	ID        int64  `json:"id_user"`
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Email     string `json:"email,omitempty"`
}

// Work is a catalogued cultural work.
type Work struct {
	ID    int64   `json:"id_oeuvre"`
	Title string  `json:"titre"`
	Year  *int    `json:"annee_creation"`
	Kind  *string `json:"type_oeuvre"`
}

// Organization is a partner institution.
type Organization struct {
	ID   int64   `json:"id_organisation"`
	Name string  `json:"nom"`
	Site *string `json:"site_web"`
}

// Media is a file attached to an event.
type Media struct {
	ID    int64   `json:"id_media"`
	Kind  string  `json:"type_media"`
	URL   string  `json:"url"`
	Title *string `json:"titre"`
}

// Entity kinds accepted by ReferenceRepository.MissingIDs.
const (
	EntityVenue        = "lieu"
	EntityEventType    = "type_evenement"
	EntityUser         = "user"
	EntityWork         = "oeuvre"
	EntityOrganization = "organisation"
)

// ReferenceRepository reads the catalogue entities an event refers to.
type ReferenceRepository interface {
	// MissingIDs returns the subset of ids that do not exist for the entity kind.
	MissingIDs(ctx context.Context, entity string, ids []int64) ([]int64, error)
	GetUser(ctx context.Context, id int64) (*UserSummary, error)
	ListMediaByEventID(ctx context.Context, eventID int64) ([]*Media, error)
}
