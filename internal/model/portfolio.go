package model

import "fmt"

// PropertyDocument is one filing or registration attached to a discovered
// property.
type PropertyDocument struct {
	DocType      string  `json:"doc_type"`
	Role         string  `json:"role"`
	Amount       float64 `json:"amount,omitempty"`
	RecordedDate string  `json:"recorded_date,omitempty"`
	Name         string  `json:"name"`
}

// PortfolioProperty is a parcel discovered through portfolio search, keyed
// by borough-block-lot. The first match creates the entry; later matches
// append documents or fill enrichment fields left empty.
type PortfolioProperty struct {
	Borough       int                `json:"borough"`
	Block         int                `json:"block"`
	Lot           int                `json:"lot"`
	Address       string             `json:"address,omitempty"`
	MatchedVia    string             `json:"matched_via"`
	Documents     []PropertyDocument `json:"documents,omitempty"`
	OwnerName     string             `json:"owner_name,omitempty"`
	Units         int                `json:"units,omitempty"`
	YearBuilt     int                `json:"year_built,omitempty"`
	AssessedValue float64            `json:"assessed_value,omitempty"`
	NumFloors     float64            `json:"num_floors,omitempty"`
	BuildingArea  float64            `json:"building_area,omitempty"`
	Zoning        string             `json:"zoning,omitempty"`
}

// Key returns the canonical "borough-block-lot" map key.
func (p *PortfolioProperty) Key() string {
	return fmt.Sprintf("%d-%d-%d", p.Borough, p.Block, p.Lot)
}
