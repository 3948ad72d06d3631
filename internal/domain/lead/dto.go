package lead

import (
	"mime/multipart"
	"time"
)

// SubmitLeadRequest is the public intake form. It is bound from a multipart body.
type SubmitLeadRequest struct {
	FirstName      string                `form:"firstName" json:"firstName" validate:"required,max=100"`
	LastName       string                `form:"lastName" json:"lastName" validate:"required,max=100"`
	Email          string                `form:"email" json:"email" validate:"required,email,max=254"`
	Citizenship    string                `form:"citizenship" json:"citizenship" validate:"required,max=100"`
	Website        string                `form:"website" json:"website" validate:"max=2048"`
	VisaCategories []string              `form:"-" json:"visaCategories" validate:"min=1,dive,visa_category"`
	HelpText       string                `form:"helpText" json:"helpText" validate:"required,max=10000"`
	Resume         *multipart.FileHeader `form:"-" json:"resume" validate:"required"`

	// SubmittedAt is only honoured when the service trusts client timestamps.
	SubmittedAt *time.Time `form:"-" json:"-"`
}

// UpdateLeadStatusRequest is the PATCH /api/leads body.
type UpdateLeadStatusRequest struct {
	ID    int64  `json:"id" binding:"required"`
	State string `json:"state" binding:"required"`
}

// StatsResponse is returned by GET /api/leads/stats
type StatsResponse struct {
	Total  int           `json:"total"`
	States map[State]int `json:"states"`
}
