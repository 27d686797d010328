package enrich

import (
	"sort"
	"strings"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/resolve"
	"github.com/sells-group/ownership-cli/internal/sources"
)

// timelineDocTypes are the ownership-relevant filing document types shown
// on the transaction timeline.
var timelineDocTypes = map[string]bool{
	"DEED": true,
	"MTGE": true,
	"MTG":  true,
	"ASST": true,
	"ASGN": true,
	"AGMT": true,
}

// BuildTimeline joins filing-master records with their parties on document
// id, keeps ownership-relevant document types, and sorts by recorded date
// descending. Timeline entries are returned separately from candidates for
// display and audit.
func BuildTimeline(masters []sources.FilingMaster, parties []sources.FilingParty) []model.Transaction {
	partiesByDoc := make(map[string][]sources.FilingParty, len(masters))
	for _, p := range parties {
		partiesByDoc[p.DocumentID] = append(partiesByDoc[p.DocumentID], p)
	}

	transactions := []model.Transaction{}
	for _, m := range masters {
		if !timelineDocTypes[strings.ToUpper(strings.TrimSpace(m.DocType))] {
			continue
		}

		tx := model.Transaction{
			DocumentID:   m.DocumentID,
			DocType:      m.DocType,
			Amount:       m.Amount,
			RecordedDate: m.RecordedDate,
			DocumentDate: m.DocumentDate,
		}
		for _, p := range partiesByDoc[m.DocumentID] {
			tx.Parties = append(tx.Parties, model.TransactionParty{
				Role: resolve.PartyRole(p.RoleCode, m.DocType),
				Name: p.Name,
			})
		}
		transactions = append(transactions, tx)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		ti, iOK := resolve.ParseDate(transactions[i].RecordedDate)
		tj, jOK := resolve.ParseDate(transactions[j].RecordedDate)
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})
	return transactions
}
