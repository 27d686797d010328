package resolve

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/sources"
)

// Collector folds raw source records into candidate signals. One pass per
// source; attachment order is independent of fetch order.
type Collector struct {
	set *CandidateSet
}

// NewCollector creates a collector over the candidate set.
func NewCollector(set *CandidateSet) *Collector {
	return &Collector{set: set}
}

// TaxOwner attaches the tax-record owner name, if present.
func (c *Collector) TaxOwner(name string) {
	h := c.set.GetOrCreate(name)
	if h == None {
		return
	}
	c.set.AddSignal(h, model.Signal{
		Source: model.SourceTaxRecord,
		Role:   "Tax Record Owner",
		Date:   model.DateCurrent,
	})
}

// RegistryContacts attaches one signal per housing-registry contact, plus
// the contact's business address when present.
func (c *Collector) RegistryContacts(contacts []sources.RegistryContact) {
	for _, rc := range contacts {
		h := c.set.GetOrCreate(rc.DisplayName())
		if h == None {
			continue
		}

		role := rc.Description
		if role == "" {
			role = rc.Type
		}
		if role == "" {
			role = "Contact"
		}

		c.set.AddSignal(h, model.Signal{
			Source: model.SourceHousingRegistry,
			Role:   role,
			Date:   model.DateCurrent,
		})

		if rc.BusinessAddress != "" {
			c.set.AddContact(h, model.ContactInfo{
				Type:   "address",
				Value:  rc.BusinessAddress,
				Source: string(model.SourceHousingRegistry),
			})
		}
	}
}

// FilingParties attaches one signal per party per filing document, deriving
// the role from the party role code and the document type, and attaching
// the party's mailing address as contact info.
func (c *Collector) FilingParties(parties []sources.FilingParty, masters map[string]sources.FilingMaster) {
	for _, p := range parties {
		h := c.set.GetOrCreate(p.Name)
		if h == None {
			continue
		}

		m := masters[p.DocumentID]

		sig := model.Signal{
			Source: SourceForDocType(m.DocType),
			Role:   PartyRole(p.RoleCode, m.DocType),
			Date:   m.RecordedDate,
		}
		if m.Amount > 0 {
			sig.Detail = FormatAmount(m.Amount)
		}
		c.set.AddSignal(h, sig)

		if addr := p.MailingAddress(); addr != "" {
			c.set.AddContact(h, model.ContactInfo{
				Type:   "address",
				Value:  addr,
				Source: string(sig.Source),
			})
		}
	}
}

// CorporateHits attaches registry signals for an entity-flagged name: one
// for the registration status, and one carrying the registry identifier
// when present.
func (c *Collector) CorporateHits(searchedName string, hits []sources.CorporateEntity) {
	for _, hit := range hits {
		name := hit.Name
		if name == "" {
			name = searchedName
		}
		h := c.set.GetOrCreate(name)
		if h == None {
			continue
		}

		status := "Inactive"
		if strings.EqualFold(hit.Status, "active") {
			status = "Active"
		}

		date := hit.DateFiled
		if date == "" {
			date = model.DateCurrent
		}

		c.set.AddSignal(h, model.Signal{
			Source: model.SourceCorporateRegistry,
			Role:   "Registered Entity (" + status + ")",
			Date:   date,
		})

		if hit.CorpID != "" {
			c.set.AddSignal(h, model.Signal{
				Source: model.SourceCorporateRegistry,
				Role:   "Corporate Registry ID",
				Date:   date,
				Detail: hit.CorpID,
			})
		}
	}
}

// PartyRole derives the human-readable signal role from a party role code
// and the filing's document type.
func PartyRole(roleCode, docType string) string {
	docType = strings.ToUpper(strings.TrimSpace(docType))
	isDeed := docType == "DEED"
	isMortgage := docType == "MTGE" || docType == "MTG"

	switch roleCode {
	case sources.PartyRoleGrantee:
		switch {
		case isDeed:
			return "Deed Grantee (Buyer)"
		case isMortgage:
			return "Mortgage Borrower"
		case docType != "":
			return "Grantee on " + docType
		default:
			return "Grantee"
		}
	case sources.PartyRoleGrantor:
		switch {
		case isDeed:
			return "Deed Grantor (Seller)"
		case docType != "":
			return "Grantor on " + docType
		default:
			return "Grantor"
		}
	default:
		if docType != "" {
			return "Party on " + docType
		}
		return "Party"
	}
}

// SourceForDocType maps a filing document type onto a signal source.
// Miscellaneous doc types count as agreement filings so source diversity
// still sees them once.
func SourceForDocType(docType string) model.Source {
	switch strings.ToUpper(strings.TrimSpace(docType)) {
	case "DEED":
		return model.SourceDeedFiling
	case "MTGE", "MTG":
		return model.SourceMortgageFiling
	case "ASST", "ASGN":
		return model.SourceAssignmentFiling
	default:
		return model.SourceAgreementFiling
	}
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a filing amount as a grouped dollar string.
func FormatAmount(amount float64) string {
	return amountPrinter.Sprintf("$%.0f", amount)
}
