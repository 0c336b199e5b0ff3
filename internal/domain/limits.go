package domain

import "unicode/utf8"

// Column widths of the catalog schema, in characters.
const (
	MaxNameLength         = 255
	MaxTitleLength        = 255
	MaxRoleLength         = 100
	MaxActivityTypeLength = 100
	MaxEmailLength        = 255
	MaxPhoneLength        = 50
	MaxURLLength          = 500
)

// CheckLength records a problem for field when value holds more than limit characters.
func (e *ValidationError) CheckLength(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		e.Add(field, "must be at most %d characters", limit)
	}
}

// CheckOptionalLength is CheckLength for nullable columns.
func (e *ValidationError) CheckOptionalLength(field string, value *string, limit int) {
	if value != nil {
		e.CheckLength(field, *value, limit)
	}
}
