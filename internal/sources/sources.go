// Package sources defines the data source adapter interface the resolution
// core queries. Each method covers one public-record registry and takes a
// structured filter; the adapter implementation owns query-language
// escaping and pagination.
package sources

import "context"

// FilingLegal is one parcel reference on a recorded filing document.
type FilingLegal struct {
	DocumentID   string `json:"document_id"`
	Borough      int    `json:"borough"`
	Block        int    `json:"block"`
	Lot          int    `json:"lot"`
	StreetNumber string `json:"street_number,omitempty"`
	StreetName   string `json:"street_name,omitempty"`
	Unit         string `json:"unit,omitempty"`
}

// Address returns the best street-level address the legal carries.
func (l FilingLegal) Address() string {
	switch {
	case l.StreetNumber != "" && l.StreetName != "":
		return l.StreetNumber + " " + l.StreetName
	case l.StreetName != "":
		return l.StreetName
	default:
		return ""
	}
}

// FilingMaster is the master record of a recorded filing document.
type FilingMaster struct {
	DocumentID   string  `json:"document_id"`
	DocType      string  `json:"doc_type"`
	Amount       float64 `json:"amount"`
	RecordedDate string  `json:"recorded_date"`
	DocumentDate string  `json:"document_date,omitempty"`
}

// Party role codes as they appear in the filing registry.
const (
	PartyRoleGrantor = "1"
	PartyRoleGrantee = "2"
)

// FilingParty is one named party on a recorded filing document.
type FilingParty struct {
	DocumentID string `json:"document_id"`
	RoleCode   string `json:"role_code"`
	Name       string `json:"name"`
	Address1   string `json:"address_1,omitempty"`
	Address2   string `json:"address_2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Zip        string `json:"zip,omitempty"`
}

// MailingAddress joins the party's address fields into one line.
func (p FilingParty) MailingAddress() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Address1, p.Address2, p.City, p.State} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	addr := parts[0]
	for _, s := range parts[1:] {
		addr += ", " + s
	}
	if p.Zip != "" {
		addr += " " + p.Zip
	}
	return addr
}

// CorporateEntity is one corporate-registry record.
type CorporateEntity struct {
	CorpID    string `json:"corp_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	DateFiled string `json:"date_filed,omitempty"`
}

// RegistryContact is one housing-registry contact record.
type RegistryContact struct {
	RegistrationID  string `json:"registration_id"`
	Type            string `json:"type,omitempty"`
	Description     string `json:"description,omitempty"`
	CorporateName   string `json:"corporate_name,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	BusinessAddress string `json:"business_address,omitempty"`
}

// DisplayName returns the contact's corporate name, or first+last name.
func (c RegistryContact) DisplayName() string {
	if c.CorporateName != "" {
		return c.CorporateName
	}
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.LastName != "":
		return c.LastName
	default:
		return c.FirstName
	}
}

// Registration is one housing-registry building registration.
type Registration struct {
	RegistrationID       string `json:"registration_id"`
	Borough              int    `json:"borough"`
	Block                int    `json:"block"`
	Lot                  int    `json:"lot"`
	HouseNumber          string `json:"house_number,omitempty"`
	StreetName           string `json:"street_name,omitempty"`
	Zip                  string `json:"zip,omitempty"`
	BIN                  string `json:"bin,omitempty"`
	LastRegistrationDate string `json:"last_registration_date,omitempty"`
}

// Address returns the registration's street-level address.
func (r Registration) Address() string {
	switch {
	case r.HouseNumber != "" && r.StreetName != "":
		return r.HouseNumber + " " + r.StreetName
	case r.StreetName != "":
		return r.StreetName
	default:
		return ""
	}
}

// TaxAssessment is one tax-roll record for a parcel.
type TaxAssessment struct {
	Borough          int     `json:"borough"`
	Block            int     `json:"block"`
	Lot              int     `json:"lot"`
	Address          string  `json:"address,omitempty"`
	OwnerName        string  `json:"owner_name,omitempty"`
	UnitsResidential int     `json:"units_residential,omitempty"`
	UnitsTotal       int     `json:"units_total,omitempty"`
	YearBuilt        int     `json:"year_built,omitempty"`
	NumFloors        float64 `json:"num_floors,omitempty"`
	BuildingArea     float64 `json:"building_area,omitempty"`
	LotArea          float64 `json:"lot_area,omitempty"`
	Zoning           string  `json:"zoning,omitempty"`
	AssessedTotal    float64 `json:"assessed_total,omitempty"`
}

// LegalsFilter selects filing legals for one parcel.
type LegalsFilter struct {
	Borough int
	Block   int
	Lot     int
}

// ContactFilter selects housing-registry contacts by surname or corporate
// name prefix. Exactly one of the two fields should be set.
type ContactFilter struct {
	LastName      string
	CorporateName string
}

// BlockLot is one block/lot pair within a borough.
type BlockLot struct {
	Block int
	Lot   int
}

// TaxFilter selects tax-roll records for a set of parcels in one borough.
type TaxFilter struct {
	Borough int
	Pairs   []BlockLot
}

// Adapter is the narrow query interface the resolution core consumes.
// Implementations map loosely-structured upstream payloads into the typed
// records above. All methods honor context cancellation.
type Adapter interface {
	FilingLegals(ctx context.Context, f LegalsFilter) ([]FilingLegal, error)
	FilingLegalsByDocuments(ctx context.Context, documentIDs []string) ([]FilingLegal, error)
	FilingMasters(ctx context.Context, documentIDs []string) ([]FilingMaster, error)
	FilingParties(ctx context.Context, documentIDs []string) ([]FilingParty, error)
	FilingPartiesByName(ctx context.Context, namePattern string) ([]FilingParty, error)
	CorporateEntities(ctx context.Context, namePattern string) ([]CorporateEntity, error)
	RegistryContacts(ctx context.Context, f ContactFilter) ([]RegistryContact, error)
	Registrations(ctx context.Context, registrationIDs []string) ([]Registration, error)
	TaxAssessments(ctx context.Context, f TaxFilter) ([]TaxAssessment, error)
}
