package portfolio

import (
	"sort"
	"sync"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/sources"
)

// parcelMap accumulates discovered properties keyed by borough-block-lot.
// Writes arrive from concurrent search completions, so every mutation is
// serialized behind the mutex. Merge rules: the first writer for a key
// creates the entry; later matches append documents or fill fields left
// empty, and never overwrite denser data with sparser data (the longer
// address string wins).
type parcelMap struct {
	mu sync.Mutex
	m  map[string]*model.PortfolioProperty
}

func newParcelMap() *parcelMap {
	return &parcelMap{m: make(map[string]*model.PortfolioProperty)}
}

// addDocument attaches a filing document to the parcel, creating the entry
// if absent.
func (pm *parcelMap) addDocument(legal sources.FilingLegal, matchedVia string, doc model.PropertyDocument) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p := pm.upsertLocked(legal.Borough, legal.Block, legal.Lot, matchedVia)
	setDenserAddress(p, legal.Address())
	p.Documents = append(p.Documents, doc)
}

// addRegistration merges a housing registration into the map, creating a
// property with a synthetic "Registered" document if not already present.
func (pm *parcelMap) addRegistration(reg sources.Registration, matchedVia string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	key := (&model.PortfolioProperty{Borough: reg.Borough, Block: reg.Block, Lot: reg.Lot}).Key()
	if existing, ok := pm.m[key]; ok {
		setDenserAddress(existing, reg.Address())
		return
	}

	p := pm.upsertLocked(reg.Borough, reg.Block, reg.Lot, matchedVia)
	setDenserAddress(p, reg.Address())
	p.Documents = append(p.Documents, model.PropertyDocument{
		DocType:      "REGISTRATION",
		Role:         "Registered",
		RecordedDate: reg.LastRegistrationDate,
		Name:         matchedVia,
	})
}

func (pm *parcelMap) upsertLocked(borough, block, lot int, matchedVia string) *model.PortfolioProperty {
	p := &model.PortfolioProperty{
		Borough:    borough,
		Block:      block,
		Lot:        lot,
		MatchedVia: matchedVia,
	}
	key := p.Key()
	if existing, ok := pm.m[key]; ok {
		return existing
	}
	pm.m[key] = p
	return p
}

// needingEnrichment returns the block/lot pairs missing a usable address
// or building data, grouped by borough for batch tax-roll queries.
func (pm *parcelMap) needingEnrichment() map[int][]sources.BlockLot {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	byBorough := make(map[int][]sources.BlockLot)
	for _, p := range pm.m {
		if p.Address != "" && p.Units != 0 && p.YearBuilt != 0 && p.AssessedValue != 0 {
			continue
		}
		byBorough[p.Borough] = append(byBorough[p.Borough], sources.BlockLot{
			Block: p.Block,
			Lot:   p.Lot,
		})
	}
	return byBorough
}

// applyAssessments fills enrichment fields from tax-roll records, only
// where the existing value is empty or zero.
func (pm *parcelMap) applyAssessments(borough int, assessments []sources.TaxAssessment) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, a := range assessments {
		key := (&model.PortfolioProperty{Borough: borough, Block: a.Block, Lot: a.Lot}).Key()
		p, ok := pm.m[key]
		if !ok {
			continue
		}

		setDenserAddress(p, a.Address)
		if p.OwnerName == "" {
			p.OwnerName = a.OwnerName
		}
		if p.Units == 0 {
			if a.UnitsTotal > 0 {
				p.Units = a.UnitsTotal
			} else {
				p.Units = a.UnitsResidential
			}
		}
		if p.YearBuilt == 0 {
			p.YearBuilt = a.YearBuilt
		}
		if p.AssessedValue == 0 {
			p.AssessedValue = a.AssessedTotal
		}
		if p.NumFloors == 0 {
			p.NumFloors = a.NumFloors
		}
		if p.BuildingArea == 0 {
			p.BuildingArea = a.BuildingArea
		}
		if p.Zoning == "" {
			p.Zoning = a.Zoning
		}
	}
}

// sorted copies the properties out, ordered by most recent document date
// descending.
func (pm *parcelMap) sorted() []model.PortfolioProperty {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	// Deterministic base order before the stable date sort.
	keys := make([]string, 0, len(pm.m))
	for key := range pm.m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	properties := make([]model.PortfolioProperty, 0, len(keys))
	for _, key := range keys {
		properties = append(properties, *pm.m[key])
	}
	sortProperties(properties)
	return properties
}

// setDenserAddress keeps the longer, more complete address string.
func setDenserAddress(p *model.PortfolioProperty, addr string) {
	if len(addr) > len(p.Address) {
		p.Address = addr
	}
}
