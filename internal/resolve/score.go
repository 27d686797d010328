package resolve

import (
	"strings"
	"time"

	"github.com/sells-group/ownership-cli/internal/model"
)

// ScoreBreakdown itemizes the additive components of a candidate's
// confidence score.
type ScoreBreakdown struct {
	SourceDiversity  int `json:"source_diversity"`
	EntityAdjustment int `json:"entity_adjustment"`
	RoleAuthority    int `json:"role_authority"`
	Recency          int `json:"recency"`
	ContactRichness  int `json:"contact_richness"`
	EntityLink       int `json:"entity_link"`
	LinkedIndividual int `json:"linked_individual"`
	GrantorPenalty   int `json:"grantor_penalty"`
	AgentPenalty     int `json:"agent_penalty"`
	Final            int `json:"final"`
}

// dateLayouts covers the recorded-date formats the registries emit.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses a registry date string, skipping empty and "current"
// markers. Shared by scoring recency and timeline sorting.
func ParseDate(date string) (time.Time, bool) {
	if date == "" || date == model.DateCurrent {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ScoreCandidate computes the confidence score for one candidate from its
// own accumulated signals and contacts. Runs once per candidate after all
// signals are collected and linking has run; the final score is clamped to
// [0,100].
func ScoreCandidate(c *model.OwnerCandidate, now time.Time) ScoreBreakdown {
	var b ScoreBreakdown

	// Source diversity.
	b.SourceDiversity = c.DistinctSources() * 8
	if b.SourceDiversity > 25 {
		b.SourceDiversity = 25
	}

	// Individual bonus / entity penalty.
	if c.IsEntity {
		b.EntityAdjustment = -10
	} else {
		b.EntityAdjustment = 20
	}

	var (
		hasDeedGrantee      bool
		hasMortgageBorrower bool
		hasRegistryOwner    bool
		hasTaxRecord        bool
		latest              time.Time
		hasDated            bool
		allGrantor          = len(c.Signals) > 0
		allAgent            = len(c.Signals) > 0
	)
	for _, sig := range c.Signals {
		switch {
		case strings.Contains(sig.Role, "Deed Grantee"):
			hasDeedGrantee = true
		case strings.Contains(sig.Role, "Mortgage Borrower"):
			hasMortgageBorrower = true
		}
		if sig.Source == model.SourceHousingRegistry && strings.Contains(sig.Role, "Owner") {
			hasRegistryOwner = true
		}
		if sig.Source == model.SourceTaxRecord {
			hasTaxRecord = true
		}
		if t, ok := ParseDate(sig.Date); ok {
			hasDated = true
			if t.After(latest) {
				latest = t
			}
		}
		if !strings.Contains(sig.Role, "Grantor") && !strings.Contains(sig.Role, "Seller") {
			allGrantor = false
		}
		if !strings.Contains(sig.Role, "Agent") {
			allAgent = false
		}
	}

	// Role authority: highest applicable tier only.
	switch {
	case hasDeedGrantee:
		b.RoleAuthority = 30
	case hasMortgageBorrower:
		b.RoleAuthority = 25
	case hasRegistryOwner:
		b.RoleAuthority = 20
	case hasTaxRecord:
		b.RoleAuthority = 15
	}

	// Recency of the most recent dated signal.
	if hasDated {
		age := now.Sub(latest)
		switch {
		case age < 365*24*time.Hour:
			b.Recency = 20
		case age < 3*365*24*time.Hour:
			b.Recency = 15
		case age < 5*365*24*time.Hour:
			b.Recency = 10
		default:
			b.Recency = 5
		}
	}

	// Contact richness.
	b.ContactRichness = len(c.ContactInfo) * 5
	if b.ContactRichness > 10 {
		b.ContactRichness = 10
	}

	// Entity-link bonus.
	if c.IsEntity && c.HasSource(model.SourceCorporateRegistry) {
		b.EntityLink = 10
	}
	if !c.IsEntity && hasDeedGrantee {
		b.EntityLink += 5
	}

	// Linked-individual bonus: linking must already have run.
	if !c.IsEntity && len(c.LinkedEntities) > 0 {
		b.LinkedIndividual = 10
	}

	// Grantor-only penalty: never appears as a buyer/current-holder.
	if allGrantor {
		b.GrantorPenalty = -20
	}
	// Agent-only penalty.
	if allAgent {
		b.AgentPenalty = -15
	}

	total := b.SourceDiversity + b.EntityAdjustment + b.RoleAuthority +
		b.Recency + b.ContactRichness + b.EntityLink + b.LinkedIndividual +
		b.GrantorPenalty + b.AgentPenalty
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	b.Final = total
	return b
}

// Recommend produces the recommendation text for a scored candidate.
func Recommend(c *model.OwnerCandidate) string {
	switch {
	case c.Confidence >= 75:
		if c.IsEntity {
			if len(c.LinkedEntities) > 0 {
				return "Registered entity with strong record presence; likely controlled by " +
					strings.Join(c.LinkedEntities, ", ")
			}
			return "Registered entity with strong record presence"
		}
		return "Likely true owner"
	case c.Confidence >= 50:
		return "Moderate confidence"
	case c.Confidence >= 25:
		return "Low confidence; possibly an agent, previous owner, or related party"
	default:
		return "Unlikely current owner; possibly a previous owner or third party"
	}
}

// FinalizeScores computes each candidate's confidence and recommendation in
// one pass. The candidate set must be complete and linking must already
// have run.
func FinalizeScores(set *CandidateSet, now time.Time) {
	for h := Handle(0); int(h) < set.Len(); h++ {
		c := set.at(h)
		c.Confidence = ScoreCandidate(c, now).Final
		c.Recommendation = Recommend(c)
	}
}
