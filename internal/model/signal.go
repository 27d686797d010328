package model

// Source identifies which public-record registry produced a signal.
type Source string

const (
	SourceTaxRecord         Source = "tax_record"
	SourceHousingRegistry   Source = "housing_registry"
	SourceDeedFiling        Source = "deed_filing"
	SourceMortgageFiling    Source = "mortgage_filing"
	SourceAssignmentFiling  Source = "assignment_filing"
	SourceAgreementFiling   Source = "agreement_filing"
	SourceCorporateRegistry Source = "corporate_registry"
)

// DateCurrent marks signals that describe present-day state rather than a
// dated filing (tax rolls, active registrations).
const DateCurrent = "current"

// Signal is one piece of evidence tying a name to a parcel. Immutable once
// created; appended to exactly one candidate.
type Signal struct {
	Source Source `json:"source"`
	Role   string `json:"role"`
	Date   string `json:"date"`
	Detail string `json:"detail,omitempty"`
}

// ContactInfo is a contact point attached to a candidate, deduplicated by
// exact value.
type ContactInfo struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Source string `json:"source"`
}
