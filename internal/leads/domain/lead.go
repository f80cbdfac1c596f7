package domain

import (
	"encoding/json"
	"time"
)

// LeadStatus tracks a lead through the sales pipeline
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusQuoteSent  LeadStatus = "quote_sent"
	LeadStatusClosedWon  LeadStatus = "closed_won"
	LeadStatusClosedLost LeadStatus = "closed_lost"
)

// Valid reports whether the status is a known pipeline state
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoteSent,
		LeadStatusClosedWon, LeadStatusClosedLost:
		return true
	}
	return false
}

// Lead is a triaged lead in the dashboard pipeline
type Lead struct {
	ID              string     `db:"id" json:"id"`
	FullName        string     `db:"full_name" json:"full_name"`
	FirstName       string     `db:"first_name" json:"first_name"`
	LastName        string     `db:"last_name" json:"last_name"`
	Email           string     `db:"email" json:"email"`
	Phone           string     `db:"phone" json:"phone"`
	LeadIdentity    string     `db:"lead_identity" json:"lead_identity"`
	ContactInfo     string     `db:"contact_info" json:"contact_info"`
	Status          LeadStatus `db:"status" json:"status"`
	Source          string     `db:"source" json:"source"`
	Premium         *string    `db:"premium" json:"premium,omitempty"`
	PotentialStatus *string    `db:"potential_status" json:"potential_status,omitempty"`
	RenewalDate     *string    `db:"renewal_date" json:"renewal_date,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IncomingLead is a raw lead notification from the Meta webhook,
// held until an agent triages or dismisses it
type IncomingLead struct {
	ID          string          `db:"id" json:"id"`
	LeadgenID   string          `db:"leadgen_id" json:"leadgen_id"`
	FormID      string          `db:"form_id" json:"form_id"`
	AdID        string          `db:"ad_id" json:"ad_id"`
	CreatedTime string          `db:"created_time" json:"created_time"`
	FieldData   json.RawMessage `db:"field_data" json:"field_data"`
	ReceivedAt  time.Time       `db:"received_at" json:"received_at"`
}

// ListParams filters and paginates lead listings
type ListParams struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// Normalize applies the listing defaults
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 25
	}
}
