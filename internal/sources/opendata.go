package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ownership-cli/pkg/socrata"
)

// DatasetIDs holds the open-data dataset identifiers for each registry.
type DatasetIDs struct {
	FilingLegals  string `mapstructure:"filing_legals"`
	FilingMaster  string `mapstructure:"filing_master"`
	FilingParties string `mapstructure:"filing_parties"`
	Contacts      string `mapstructure:"contacts"`
	Registrations string `mapstructure:"registrations"`
	TaxRoll       string `mapstructure:"tax_roll"`
	Corporations  string `mapstructure:"corporations"`
}

// OpenDataConfig configures the open-data adapter.
type OpenDataConfig struct {
	Datasets    DatasetIDs
	RecordLimit int
}

// OpenData implements Adapter against a SODA-style open-data platform.
type OpenData struct {
	client socrata.Client
	cfg    OpenDataConfig
}

// Ensure OpenData implements Adapter.
var _ Adapter = (*OpenData)(nil)

// NewOpenData creates the open-data adapter.
func NewOpenData(client socrata.Client, cfg OpenDataConfig) *OpenData {
	if cfg.RecordLimit <= 0 {
		cfg.RecordLimit = 500
	}
	return &OpenData{client: client, cfg: cfg}
}

// quote escapes a string literal for a SoQL where clause. The adapter owns
// escaping; callers pass raw values.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// inList builds a SoQL "field in (...)" clause.
func inList(field string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return fmt.Sprintf("%s in (%s)", field, strings.Join(quoted, ","))
}

// prefixMatch builds a case-insensitive "starts with" clause.
func prefixMatch(field, pattern string) string {
	return fmt.Sprintf("upper(%s) like %s", field, quote(strings.ToUpper(pattern)+"%"))
}

func (o *OpenData) FilingLegals(ctx context.Context, f LegalsFilter) ([]FilingLegal, error) {
	rows, err := o.client.Select(ctx, o.cfg.Datasets.FilingLegals, socrata.Query{
		Where: fmt.Sprintf("borough=%s and block=%s and lot=%s",
			quote(fmt.Sprint(f.Borough)), quote(fmt.Sprint(f.Block)), quote(fmt.Sprint(f.Lot))),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: filing legals")
	}
	return legalRows(rows), nil
}

func (o *OpenData) FilingLegalsByDocuments(ctx context.Context, documentIDs []string) ([]FilingLegal, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.FilingLegals, socrata.Query{
		Where: inList("document_id", documentIDs),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: filing legals by documents")
	}
	return legalRows(rows), nil
}

func legalRows(rows []socrata.Row) []FilingLegal {
	legals := make([]FilingLegal, 0, len(rows))
	for _, r := range rows {
		legals = append(legals, FilingLegal{
			DocumentID:   r.String("document_id"),
			Borough:      r.Int("borough"),
			Block:        r.Int("block"),
			Lot:          r.Int("lot"),
			StreetNumber: r.String("street_number"),
			StreetName:   r.String("street_name"),
			Unit:         r.String("unit"),
		})
	}
	return legals
}

func (o *OpenData) FilingMasters(ctx context.Context, documentIDs []string) ([]FilingMaster, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.FilingMaster, socrata.Query{
		Where: inList("document_id", documentIDs),
		Order: "recorded_datetime DESC",
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: filing masters")
	}

	masters := make([]FilingMaster, 0, len(rows))
	for _, r := range rows {
		masters = append(masters, FilingMaster{
			DocumentID:   r.String("document_id"),
			DocType:      r.String("doc_type"),
			Amount:       r.Float("document_amt"),
			RecordedDate: r.String("recorded_datetime"),
			DocumentDate: r.String("document_date"),
		})
	}
	return masters, nil
}

func (o *OpenData) FilingParties(ctx context.Context, documentIDs []string) ([]FilingParty, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.FilingParties, socrata.Query{
		Where: inList("document_id", documentIDs),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: filing parties")
	}
	return partyRows(rows), nil
}

func (o *OpenData) FilingPartiesByName(ctx context.Context, namePattern string) ([]FilingParty, error) {
	if namePattern == "" {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.FilingParties, socrata.Query{
		Where: prefixMatch("name", namePattern),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: filing parties by name")
	}
	return partyRows(rows), nil
}

func partyRows(rows []socrata.Row) []FilingParty {
	parties := make([]FilingParty, 0, len(rows))
	for _, r := range rows {
		parties = append(parties, FilingParty{
			DocumentID: r.String("document_id"),
			RoleCode:   r.String("party_type"),
			Name:       r.String("name"),
			Address1:   r.String("address_1"),
			Address2:   r.String("address_2"),
			City:       r.String("city"),
			State:      r.String("state"),
			Zip:        r.String("zip"),
		})
	}
	return parties
}

func (o *OpenData) CorporateEntities(ctx context.Context, namePattern string) ([]CorporateEntity, error) {
	if namePattern == "" {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.Corporations, socrata.Query{
		Where: prefixMatch("current_entity_name", namePattern),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: corporate entities")
	}

	entities := make([]CorporateEntity, 0, len(rows))
	for _, r := range rows {
		status := r.String("current_entity_status")
		if status == "" {
			// The active-corporations dataset only carries live entities.
			status = "Active"
		}
		entities = append(entities, CorporateEntity{
			CorpID:    r.String("dos_id"),
			Name:      r.String("current_entity_name"),
			Status:    status,
			DateFiled: r.String("initial_dos_filing_date"),
		})
	}
	return entities, nil
}

func (o *OpenData) RegistryContacts(ctx context.Context, f ContactFilter) ([]RegistryContact, error) {
	var where string
	switch {
	case f.CorporateName != "":
		where = prefixMatch("corporationname", f.CorporateName)
	case f.LastName != "":
		where = prefixMatch("lastname", f.LastName)
	default:
		return nil, nil
	}

	rows, err := o.client.Select(ctx, o.cfg.Datasets.Contacts, socrata.Query{
		Where: where,
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: registry contacts")
	}

	contacts := make([]RegistryContact, 0, len(rows))
	for _, r := range rows {
		contacts = append(contacts, RegistryContact{
			RegistrationID:  r.String("registrationid"),
			Type:            r.String("type"),
			Description:     r.String("contactdescription"),
			CorporateName:   r.String("corporationname"),
			FirstName:       r.String("firstname"),
			LastName:        r.String("lastname"),
			BusinessAddress: businessAddress(r),
		})
	}
	return contacts, nil
}

// businessAddress joins the contact's business address fields into one line.
func businessAddress(r socrata.Row) string {
	var b strings.Builder
	house := r.String("businesshousenumber")
	street := r.String("businessstreetname")
	if house != "" && street != "" {
		b.WriteString(house + " " + street)
	} else if street != "" {
		b.WriteString(street)
	}
	if apt := r.String("businessapartment"); apt != "" && b.Len() > 0 {
		b.WriteString(" " + apt)
	}
	for _, f := range []string{"businesscity", "businessstate"} {
		if v := r.String(f); v != "" {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v)
		}
	}
	if zip := r.String("businesszip"); zip != "" && b.Len() > 0 {
		b.WriteString(" " + zip)
	}
	return b.String()
}

func (o *OpenData) Registrations(ctx context.Context, registrationIDs []string) ([]Registration, error) {
	if len(registrationIDs) == 0 {
		return nil, nil
	}
	rows, err := o.client.Select(ctx, o.cfg.Datasets.Registrations, socrata.Query{
		Where: inList("registrationid", registrationIDs),
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: registrations")
	}

	regs := make([]Registration, 0, len(rows))
	for _, r := range rows {
		regs = append(regs, Registration{
			RegistrationID:       r.String("registrationid"),
			Borough:              r.Int("boroid"),
			Block:                r.Int("block"),
			Lot:                  r.Int("lot"),
			HouseNumber:          r.String("housenumber"),
			StreetName:           r.String("streetname"),
			Zip:                  r.String("zip"),
			BIN:                  r.String("bin"),
			LastRegistrationDate: r.String("lastregistrationdate"),
		})
	}
	return regs, nil
}

func (o *OpenData) TaxAssessments(ctx context.Context, f TaxFilter) ([]TaxAssessment, error) {
	if len(f.Pairs) == 0 {
		return nil, nil
	}

	clauses := make([]string, len(f.Pairs))
	for i, p := range f.Pairs {
		clauses[i] = fmt.Sprintf("(block=%d and lot=%d)", p.Block, p.Lot)
	}
	where := fmt.Sprintf("borocode=%d and (%s)", f.Borough, strings.Join(clauses, " or "))

	rows, err := o.client.Select(ctx, o.cfg.Datasets.TaxRoll, socrata.Query{
		Where: where,
		Limit: o.cfg.RecordLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sources: tax assessments")
	}

	assessments := make([]TaxAssessment, 0, len(rows))
	for _, r := range rows {
		assessments = append(assessments, TaxAssessment{
			Borough:          r.Int("borocode"),
			Block:            r.Int("block"),
			Lot:              r.Int("lot"),
			Address:          r.String("address"),
			OwnerName:        r.String("ownername"),
			UnitsResidential: r.Int("unitsres"),
			UnitsTotal:       r.Int("unitstotal"),
			YearBuilt:        r.Int("yearbuilt"),
			NumFloors:        r.Float("numfloors"),
			BuildingArea:     r.Float("bldgarea"),
			LotArea:          r.Float("lotarea"),
			Zoning:           r.String("zonedist1"),
			AssessedTotal:    r.Float("assesstot"),
		})
	}
	return assessments, nil
}
