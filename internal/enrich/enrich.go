// Package enrich implements the per-parcel ownership resolution
// orchestrator: concurrent multi-source fetches feeding signal collection,
// entity linking, confidence scoring, and the transaction timeline.
package enrich

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/resolve"
	"github.com/sells-group/ownership-cli/internal/sources"
)

// Config bounds the orchestrator's external queries.
type Config struct {
	// DocIDLimit truncates the document-id set before building "in"
	// queries, bounding query-string size and adapter load.
	DocIDLimit int

	// CorporateLookupLimit caps corporate-registry lookups per run.
	CorporateLookupLimit int

	// AdapterTimeout bounds each individual adapter call. Timeout degrades
	// to an empty result like any other adapter failure.
	AdapterTimeout time.Duration
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		DocIDLimit:           40,
		CorporateLookupLimit: 3,
		AdapterTimeout:       10 * time.Second,
	}
}

// Request describes one resolution call: the parcel plus any names and
// contacts already known from a prior lookup.
type Request struct {
	Parcel           model.Parcel              `json:"parcel"`
	TaxOwnerName     string                    `json:"tax_owner_name,omitempty"`
	RegistryContacts []sources.RegistryContact `json:"registry_contacts,omitempty"`
}

// Result is the ranked outcome of one resolution call. The caller owns the
// slices; nothing is retained between calls.
type Result struct {
	Candidates            []model.OwnerCandidate `json:"candidates"`
	Transactions          []model.Transaction    `json:"transactions"`
	CorporateRegistryHits []model.CorporateHit   `json:"corporate_registry_hits"`
	DataSourceCounts      map[string]int         `json:"data_source_counts"`
}

// Orchestrator runs ownership resolution for single parcels.
type Orchestrator struct {
	adapter sources.Adapter
	matcher *resolve.Matcher
	cfg     Config
	now     func() time.Time
}

// New creates an orchestrator.
func New(adapter sources.Adapter, matcher *resolve.Matcher, cfg Config) *Orchestrator {
	if cfg.DocIDLimit <= 0 {
		cfg.DocIDLimit = 40
	}
	if cfg.CorporateLookupLimit <= 0 {
		cfg.CorporateLookupLimit = 3
	}
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = 10 * time.Second
	}
	return &Orchestrator{
		adapter: adapter,
		matcher: matcher,
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (o *Orchestrator) WithNow(fn func() time.Time) *Orchestrator {
	o.now = fn
	return o
}

// Resolve queries every source for the parcel, folds the records into
// deduplicated candidates, links entities to individuals by shared
// address, scores each candidate, and returns them ranked by confidence.
// A single source failing degrades to fewer signals, never an error; only
// caller cancellation propagates.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (*Result, error) {
	log := zap.L().With(
		zap.String("component", "enrich"),
		zap.String("parcel", req.Parcel.Key()),
	)

	empty := &Result{
		Candidates:            []model.OwnerCandidate{},
		Transactions:          []model.Transaction{},
		CorporateRegistryHits: []model.CorporateHit{},
		DataSourceCounts:      map[string]int{},
	}

	if !req.Parcel.Valid() {
		log.Warn("malformed parcel, skipping resolution")
		return empty, nil
	}

	log.Info("resolving ownership")

	entityNames := o.entityNames(req)

	var (
		legals  []sources.FilingLegal
		masters []sources.FilingMaster
		parties []sources.FilingParty

		corpMu      sync.Mutex
		corpResults []corporateResult
	)

	g, gctx := errgroup.WithContext(ctx)

	// Filing chain: legals first, then master and party records for the
	// derived document-id set in parallel.
	g.Go(func() error {
		legals = fetch(gctx, log, "filing_legals", o.cfg.AdapterTimeout,
			func(ctx context.Context) ([]sources.FilingLegal, error) {
				return o.adapter.FilingLegals(ctx, sources.LegalsFilter{
					Borough: req.Parcel.Borough,
					Block:   req.Parcel.Block,
					Lot:     req.Parcel.Lot,
				})
			})

		ids := documentIDs(legals, o.cfg.DocIDLimit)
		if len(ids) == 0 {
			return nil
		}

		fg, fctx := errgroup.WithContext(gctx)
		fg.Go(func() error {
			masters = fetch(fctx, log, "filing_master", o.cfg.AdapterTimeout,
				func(ctx context.Context) ([]sources.FilingMaster, error) {
					return o.adapter.FilingMasters(ctx, ids)
				})
			return nil
		})
		fg.Go(func() error {
			parties = fetch(fctx, log, "filing_parties", o.cfg.AdapterTimeout,
				func(ctx context.Context) ([]sources.FilingParty, error) {
					return o.adapter.FilingParties(ctx, ids)
				})
			return nil
		})
		return fg.Wait()
	})

	// Corporate-registry lookups run fully in parallel with the filing
	// chain, one per entity-flagged known name.
	for _, name := range entityNames {
		name := name
		g.Go(func() error {
			hits := fetch(gctx, log, "corporate_registry", o.cfg.AdapterTimeout,
				func(ctx context.Context) ([]sources.CorporateEntity, error) {
					return o.adapter.CorporateEntities(ctx, name)
				})
			if len(hits) == 0 {
				return nil
			}
			corpMu.Lock()
			corpResults = append(corpResults, corporateResult{name: name, hits: hits})
			corpMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "enrich: fan-out")
	}
	if ctx.Err() != nil {
		// Caller abandoned the request: no partial results.
		return nil, eris.Wrap(ctx.Err(), "enrich: canceled")
	}

	// Deterministic collection order regardless of fetch completion order.
	sort.Slice(corpResults, func(i, j int) bool { return corpResults[i].name < corpResults[j].name })

	set := resolve.NewCandidateSet(o.matcher)
	collector := resolve.NewCollector(set)

	collector.TaxOwner(req.TaxOwnerName)
	collector.RegistryContacts(req.RegistryContacts)
	collector.FilingParties(parties, masterIndex(masters))
	for _, cr := range corpResults {
		collector.CorporateHits(cr.name, cr.hits)
	}

	resolve.LinkByAddress(set)
	resolve.FinalizeScores(set, o.now())

	candidates := set.Candidates()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	result := &Result{
		Candidates:            candidates,
		Transactions:          BuildTimeline(masters, parties),
		CorporateRegistryHits: corporateHits(corpResults),
		DataSourceCounts: map[string]int{
			"filing_legals":      len(legals),
			"filing_master":      len(masters),
			"filing_parties":     len(parties),
			"registry_contacts":  len(req.RegistryContacts),
			"corporate_registry": len(corporateHits(corpResults)),
		},
	}

	log.Info("resolution complete",
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("transactions", len(result.Transactions)),
	)
	return result, nil
}

type corporateResult struct {
	name string
	hits []sources.CorporateEntity
}

// entityNames derives the distinct entity-flagged known names worth a
// corporate-registry lookup, capped by CorporateLookupLimit.
func (o *Orchestrator) entityNames(req Request) []string {
	known := make([]string, 0, 1+len(req.RegistryContacts))
	if req.TaxOwnerName != "" {
		known = append(known, req.TaxOwnerName)
	}
	for _, rc := range req.RegistryContacts {
		if rc.CorporateName != "" {
			known = append(known, rc.CorporateName)
		}
	}

	seen := make(map[string]bool, len(known))
	var names []string
	for _, name := range known {
		if !o.matcher.IsEntityExtended(name) {
			continue
		}
		key := resolve.Normalize(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
		if len(names) >= o.cfg.CorporateLookupLimit {
			break
		}
	}
	return names
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

// documentIDs extracts the distinct document ids from filing legals,
// truncated to limit.
func documentIDs(legals []sources.FilingLegal, limit int) []string {
	seen := make(map[string]bool, len(legals))
	var ids []string
	for _, l := range legals {
		if l.DocumentID == "" || seen[l.DocumentID] {
			continue
		}
		seen[l.DocumentID] = true
		ids = append(ids, l.DocumentID)
		if len(ids) >= limit {
			break
		}
	}
	return ids
}

func masterIndex(masters []sources.FilingMaster) map[string]sources.FilingMaster {
	idx := make(map[string]sources.FilingMaster, len(masters))
	for _, m := range masters {
		idx[m.DocumentID] = m
	}
	return idx
}

func corporateHits(results []corporateResult) []model.CorporateHit {
	hits := []model.CorporateHit{}
	for _, cr := range results {
		for _, h := range cr.hits {
			hits = append(hits, model.CorporateHit{
				SearchedName: cr.name,
				CorpID:       h.CorpID,
				CorpName:     h.Name,
				Status:       h.Status,
				DateFiled:    h.DateFiled,
			})
		}
	}
	return hits
}
