package lead

import (
	"time"
)

// State represents lead state. Values are the labels shown in the admin view.
type State string

const (
	StatePending    State = "Pending"
	StateReachedOut State = "Reached Out"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == StatePending || s == StateReachedOut
}

// ParseState accepts the label as well as the compact "ReachedOut" / "reached_out" forms.
func ParseState(v string) (State, error) {
	switch v {
	case string(StatePending), "pending":
		return StatePending, nil
	case string(StateReachedOut), "ReachedOut", "reached_out", "reached out":
		return StateReachedOut, nil
	}
	return "", ErrInvalidState
}

// Visa categories offered on the intake form.
const (
	VisaO1     = "O1"
	VisaEB1A   = "EB1A"
	VisaEB2NIW = "EB2-NIW"
	VisaUnsure = "I don't know"
)

// VisaCategories lists the selectable categories in display order.
var VisaCategories = []string{VisaO1, VisaEB1A, VisaEB2NIW, VisaUnsure}

// ResumeRef points at the stored resume upload.
type ResumeRef struct {
	ID       string `gorm:"column:id" json:"id"`
	Name     string `gorm:"column:name" json:"name"`
	MimeType string `gorm:"column:mime_type" json:"mimeType"`
	Size     int64  `gorm:"column:size" json:"size"`
	URL      string `gorm:"column:url" json:"url"`
}

// Lead is a single immigration-case inquiry.
type Lead struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`

	FirstName      string    `gorm:"column:first_name" json:"firstName"`
	LastName       string    `gorm:"column:last_name" json:"lastName"`
	Email          string    `gorm:"column:email" json:"email"`
	Citizenship    string    `gorm:"column:citizenship" json:"citizenship"`
	Website        string    `gorm:"column:website" json:"website"`
	VisaCategories []string  `gorm:"column:visa_categories;serializer:json" json:"visaCategories"`
	HelpText       string    `gorm:"column:help_text" json:"helpText"`
	Resume         ResumeRef `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`

	State       State     `gorm:"column:state;index" json:"state"`
	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submittedAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"-"`
}

func (Lead) TableName() string { return "leads" }

// IsPending returns true if nobody has reached out yet
func (l *Lead) IsPending() bool {
	return l.State == StatePending
}

// FullName is what the admin table shows in the name column.
func (l *Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// Clone returns a deep copy so callers can't alias stored slices.
func (l Lead) Clone() Lead {
	if l.VisaCategories != nil {
		l.VisaCategories = append([]string(nil), l.VisaCategories...)
	}
	return l
}
