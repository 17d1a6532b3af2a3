package domain

import (
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
)

// Application is one tracked job application.
// ID, CreatedAt and UpdatedAt are owned by the store; client values are ignored.
type Application struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Company      string    `gorm:"size:200;not null" json:"company" validate:"required,max=200"`
	Role         string    `gorm:"size:200;not null" json:"role" validate:"required,max=200"`
	Location     string    `gorm:"size:200;not null" json:"location" validate:"max=200"`
	Status       Status    `gorm:"size:20;not null;default:'APPLIED'" json:"status" validate:"required,oneof=APPLIED SCREEN ONSITE OFFER REJECTED WITHDRAWN"`
	AppliedDate  *Date     `gorm:"type:date" json:"applied_date"`
	NextFollowUp *Date     `gorm:"type:date" json:"next_follow_up"`
	Link         string    `gorm:"size:200;not null" json:"link" validate:"omitempty,weburl,max=200"`
	Notes        string    `gorm:"type:text;not null" json:"notes"`
	CreatedAt    time.Time `gorm:"precision:6;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time `gorm:"precision:6;not null;autoUpdateTime:false;index" json:"updated_at"`
}

// NewApplication returns a blank application carrying the field defaults.
func NewApplication() *Application {
	return &Application{Status: StatusApplied}
}

// ApplicationInput is a client payload. Unsent keys stay unspecified, so the
// same type serves create, full update and partial update.
type ApplicationInput struct {
	Company      nullable.Nullable[string] `json:"company"`
	Role         nullable.Nullable[string] `json:"role"`
	Location     nullable.Nullable[string] `json:"location"`
	Status       nullable.Nullable[Status] `json:"status"`
	AppliedDate  nullable.Nullable[Date]   `json:"applied_date"`
	NextFollowUp nullable.Nullable[Date]   `json:"next_follow_up"`
	Link         nullable.Nullable[string] `json:"link"`
	Notes        nullable.Nullable[string] `json:"notes"`
}

// ApplyTo copies the supplied fields onto a and validates the result. When
// partial is false, company and role must be present. On failure the returned
// *ValidationError names each offending field once and a may be half applied.
func (in ApplicationInput) ApplyTo(a *Application, partial bool) error {
	ve := NewValidationError()

	applyText(ve, "company", in.Company, &a.Company, !partial)
	applyText(ve, "role", in.Role, &a.Role, !partial)
	applyText(ve, "location", in.Location, &a.Location, false)
	applyText(ve, "link", in.Link, &a.Link, false)
	applyText(ve, "notes", in.Notes, &a.Notes, false)

	if in.Status.IsSpecified() {
		if in.Status.IsNull() {
			ve.Add("status", msgNull)
		} else {
			a.Status = in.Status.MustGet()
		}
	}

	applyDate(in.AppliedDate, &a.AppliedDate)
	applyDate(in.NextFollowUp, &a.NextFollowUp)

	if fieldErrs := validateStruct(a); fieldErrs != nil {
		for field, msgs := range fieldErrs.Fields {
			if _, reported := ve.Fields[field]; !reported {
				ve.Fields[field] = msgs
			}
		}
	}
	return ve.OrNil()
}

func applyText(ve *ValidationError, name string, f nullable.Nullable[string], dst *string, required bool) {
	if !f.IsSpecified() {
		if required {
			ve.Add(name, msgRequired)
		}
		return
	}
	if f.IsNull() {
		ve.Add(name, msgNull)
		return
	}
	*dst = strings.TrimSpace(f.MustGet())
}

// applyDate clears the date on null or on "", which HTML date inputs send.
func applyDate(f nullable.Nullable[Date], dst **Date) {
	if !f.IsSpecified() {
		return
	}
	if f.IsNull() || f.MustGet().IsZero() {
		*dst = nil
		return
	}
	d := f.MustGet()
	*dst = &d
}
