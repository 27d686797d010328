// Package portfolio implements portfolio discovery: re-querying the
// public-record sources by resolved identity to find the other parcels an
// identity controls, then enriching each with tax-roll attributes.
package portfolio

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/resolve"
	"github.com/sells-group/ownership-cli/internal/sources"
)

// Config bounds the discovery fan-out.
type Config struct {
	// SearchNameLimit caps the number of candidate names searched.
	SearchNameLimit int

	// AddressLimit caps the distinct street-level address prefixes derived
	// from candidate contacts.
	AddressLimit int

	// DocIDLimit truncates id sets before building "in" queries.
	DocIDLimit int

	// MaxConcurrent limits concurrent per-name searches.
	MaxConcurrent int

	// AdapterTimeout bounds each individual adapter call.
	AdapterTimeout time.Duration
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		SearchNameLimit: 5,
		AddressLimit:    5,
		DocIDLimit:      30,
		MaxConcurrent:   6,
		AdapterTimeout:  10 * time.Second,
	}
}

// Result is the outcome of one discovery call.
type Result struct {
	Properties        []model.PortfolioProperty `json:"properties"`
	SearchedNames     []string                  `json:"searched_names"`
	SearchedAddresses []string                  `json:"searched_addresses"`
}

// Discoverer runs portfolio discovery over already-resolved candidates.
type Discoverer struct {
	adapter sources.Adapter
	cfg     Config
}

// New creates a discoverer.
func New(adapter sources.Adapter, cfg Config) *Discoverer {
	def := DefaultConfig()
	if cfg.SearchNameLimit <= 0 {
		cfg.SearchNameLimit = def.SearchNameLimit
	}
	if cfg.AddressLimit <= 0 {
		cfg.AddressLimit = def.AddressLimit
	}
	if cfg.DocIDLimit <= 0 {
		cfg.DocIDLimit = def.DocIDLimit
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = def.AdapterTimeout
	}
	return &Discoverer{adapter: adapter, cfg: cfg}
}

type searchName struct {
	name     string
	isEntity bool
}

// Discover re-queries the filing and housing registries for each search
// name derived from the candidates, merges matches into a parcel map keyed
// by borough-block-lot, then batch-enriches parcels from the tax roll.
// Source failures degrade to fewer matches; only cancellation propagates.
func (d *Discoverer) Discover(ctx context.Context, candidates []model.OwnerCandidate) (*Result, error) {
	log := zap.L().With(zap.String("component", "portfolio"))

	names := d.searchNames(candidates)
	addresses := d.searchAddresses(candidates)

	result := &Result{
		Properties:        []model.PortfolioProperty{},
		SearchedNames:     make([]string, 0, len(names)),
		SearchedAddresses: addresses,
	}
	for _, n := range names {
		result.SearchedNames = append(result.SearchedNames, n.name)
	}
	if len(names) == 0 {
		return result, nil
	}

	log.Info("discovering portfolio", zap.Int("names", len(names)))

	pm := newParcelMap()

	// Per-name filing searches and registry searches all run concurrently;
	// no ordering constraint across names or source families.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.MaxConcurrent)

	for _, n := range names {
		n := n
		g.Go(func() error {
			d.filingSearch(gctx, log, pm, n.name)
			return nil
		})
		g.Go(func() error {
			d.registrySearch(gctx, log, pm, n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "portfolio: fan-out")
	}
	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "portfolio: canceled")
	}

	// Enrichment is a separate later phase: it needs the parcel map fully
	// populated before querying the tax roll by borough.
	d.enrichFromTaxRoll(ctx, log, pm)
	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "portfolio: canceled")
	}

	result.Properties = pm.sorted()
	log.Info("discovery complete", zap.Int("properties", len(result.Properties)))
	return result, nil
}

// searchNames derives a bounded, deduplicated name list from the
// candidates, which arrive pre-ranked from prior resolution calls.
func (d *Discoverer) searchNames(candidates []model.OwnerCandidate) []searchName {
	seen := make(map[string]bool, len(candidates))
	var names []searchName
	for _, c := range candidates {
		key := resolve.Normalize(c.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, searchName{name: c.Name, isEntity: c.IsEntity})
		if len(names) >= d.cfg.SearchNameLimit {
			break
		}
	}
	return names
}

// searchAddresses derives distinct street-level address prefixes from the
// candidates' contact info.
func (d *Discoverer) searchAddresses(candidates []model.OwnerCandidate) []string {
	seen := make(map[string]bool)
	addresses := []string{}
	for _, c := range candidates {
		for _, ci := range c.ContactInfo {
			prefix := strings.TrimSpace(strings.SplitN(ci.Value, ",", 2)[0])
			if prefix == "" || seen[prefix] {
				continue
			}
			seen[prefix] = true
			addresses = append(addresses, prefix)
			if len(addresses) >= d.cfg.AddressLimit {
				return addresses
			}
		}
	}
	return addresses
}

// filingSearch finds filings naming the candidate, resolves their parcels
// through the legals, and attaches one document per party-legal pair.
func (d *Discoverer) filingSearch(ctx context.Context, log *zap.Logger, pm *parcelMap, name string) {
	parties := fetch(ctx, log, "filing_parties_by_name", d.cfg.AdapterTimeout,
		func(ctx context.Context) ([]sources.FilingParty, error) {
			return d.adapter.FilingPartiesByName(ctx, name)
		})
	if len(parties) == 0 {
		return
	}

	ids := partyDocumentIDs(parties, d.cfg.DocIDLimit)

	var (
		legals  []sources.FilingLegal
		masters []sources.FilingMaster
	)
	fg, fctx := errgroup.WithContext(ctx)
	fg.Go(func() error {
		legals = fetch(fctx, log, "filing_legals", d.cfg.AdapterTimeout,
			func(ctx context.Context) ([]sources.FilingLegal, error) {
				return d.adapter.FilingLegalsByDocuments(ctx, ids)
			})
		return nil
	})
	fg.Go(func() error {
		masters = fetch(fctx, log, "filing_master", d.cfg.AdapterTimeout,
			func(ctx context.Context) ([]sources.FilingMaster, error) {
				return d.adapter.FilingMasters(ctx, ids)
			})
		return nil
	})
	_ = fg.Wait()

	masterIdx := make(map[string]sources.FilingMaster, len(masters))
	for _, m := range masters {
		masterIdx[m.DocumentID] = m
	}
	legalsByDoc := make(map[string][]sources.FilingLegal, len(legals))
	for _, l := range legals {
		legalsByDoc[l.DocumentID] = append(legalsByDoc[l.DocumentID], l)
	}

	for _, p := range parties {
		m, ok := masterIdx[p.DocumentID]
		if !ok {
			continue
		}
		for _, l := range legalsByDoc[p.DocumentID] {
			pm.addDocument(l, name, model.PropertyDocument{
				DocType:      m.DocType,
				Role:         resolve.PartyRole(p.RoleCode, m.DocType),
				Amount:       m.Amount,
				RecordedDate: m.RecordedDate,
				Name:         p.Name,
			})
		}
	}
}

// registrySearch finds housing registrations tied to the candidate through
// registry contacts, searching by corporate name for entities and by
// surname for individuals.
func (d *Discoverer) registrySearch(ctx context.Context, log *zap.Logger, pm *parcelMap, n searchName) {
	filter := sources.ContactFilter{}
	if n.isEntity {
		filter.CorporateName = n.name
	} else {
		filter.LastName = resolve.Surname(n.name)
	}

	contacts := fetch(ctx, log, "registry_contacts", d.cfg.AdapterTimeout,
		func(ctx context.Context) ([]sources.RegistryContact, error) {
			return d.adapter.RegistryContacts(ctx, filter)
		})
	if len(contacts) == 0 {
		return
	}

	ids := registrationIDs(contacts, d.cfg.DocIDLimit)
	regs := fetch(ctx, log, "registrations", d.cfg.AdapterTimeout,
		func(ctx context.Context) ([]sources.Registration, error) {
			return d.adapter.Registrations(ctx, ids)
		})

	for _, reg := range regs {
		pm.addRegistration(reg, n.name)
	}
}

// enrichFromTaxRoll batch-enriches parcels missing address or building
// data, grouped by borough.
func (d *Discoverer) enrichFromTaxRoll(ctx context.Context, log *zap.Logger, pm *parcelMap) {
	byBorough := pm.needingEnrichment()
	if len(byBorough) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.MaxConcurrent)

	for borough, pairs := range byBorough {
		borough, pairs := borough, pairs
		g.Go(func() error {
			assessments := fetch(gctx, log, "tax_roll", d.cfg.AdapterTimeout,
				func(ctx context.Context) ([]sources.TaxAssessment, error) {
					return d.adapter.TaxAssessments(ctx, sources.TaxFilter{
						Borough: borough,
						Pairs:   pairs,
					})
				})
			pm.applyAssessments(borough, assessments)
			return nil
		})
	}
	_ = g.Wait()
}

// fetch wraps one adapter call with a timeout; any failure degrades to an
// empty result for that source only.
func fetch[T any](ctx context.Context, log *zap.Logger, source string, timeout time.Duration, fn func(context.Context) ([]T, error)) []T {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := fn(cctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("source query failed, continuing without it",
				zap.String("source", source),
				zap.Error(err),
			)
		}
		return nil
	}
	return records
}

func partyDocumentIDs(parties []sources.FilingParty, limit int) []string {
	seen := make(map[string]bool, len(parties))
	var ids []string
	for _, p := range parties {
		if p.DocumentID == "" || seen[p.DocumentID] {
			continue
		}
		seen[p.DocumentID] = true
		ids = append(ids, p.DocumentID)
		if len(ids) >= limit {
			break
		}
	}
	return ids
}

func registrationIDs(contacts []sources.RegistryContact, limit int) []string {
	seen := make(map[string]bool, len(contacts))
	var ids []string
	for _, c := range contacts {
		if c.RegistrationID == "" || seen[c.RegistrationID] {
			continue
		}
		seen[c.RegistrationID] = true
		ids = append(ids, c.RegistrationID)
		if len(ids) >= limit {
			break
		}
	}
	return ids
}

// sortProperties orders parcels by their most recent document date
// descending; parcels with no dated documents sort last.
func sortProperties(properties []model.PortfolioProperty) {
	latest := func(p model.PortfolioProperty) (time.Time, bool) {
		var best time.Time
		found := false
		for _, doc := range p.Documents {
			if t, ok := resolve.ParseDate(doc.RecordedDate); ok {
				found = true
				if t.After(best) {
					best = t
				}
			}
		}
		return best, found
	}

	sort.SliceStable(properties, func(i, j int) bool {
		ti, iOK := latest(properties[i])
		tj, jOK := latest(properties[j])
		switch {
		case iOK && jOK:
			return ti.After(tj)
		case iOK:
			return true
		default:
			return false
		}
	})
}
