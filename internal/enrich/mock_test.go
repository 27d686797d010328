package enrich

import (
	"context"
	"sync"

	"github.com/sells-group/ownership-cli/internal/sources"
)

// stubAdapter is a hand-written sources.Adapter for orchestrator tests.
// Canned records per method, optional per-method errors, and call counts
// guarded for concurrent use.
type stubAdapter struct {
	mu          sync.Mutex
	calls       map[string]int
	masterIDs   []string
	partyIDs    []string
	corpLookups []string

	legals     []sources.FilingLegal
	legalsErr  error
	masters    []sources.FilingMaster
	mastersErr error
	parties    []sources.FilingParty
	partiesErr error
	corp       map[string][]sources.CorporateEntity
	corpErr    error
}

func newStubAdapter() *stubAdapter {
	return &stubAdapter{calls: map[string]int{}}
}

func (s *stubAdapter) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
}

func (s *stubAdapter) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *stubAdapter) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *stubAdapter) FilingLegals(ctx context.Context, f sources.LegalsFilter) ([]sources.FilingLegal, error) {
	s.record("FilingLegals")
	return s.legals, s.legalsErr
}

func (s *stubAdapter) FilingLegalsByDocuments(ctx context.Context, documentIDs []string) ([]sources.FilingLegal, error) {
	s.record("FilingLegalsByDocuments")
	return nil, nil
}

func (s *stubAdapter) FilingMasters(ctx context.Context, documentIDs []string) ([]sources.FilingMaster, error) {
	s.record("FilingMasters")
	s.mu.Lock()
	s.masterIDs = append([]string{}, documentIDs...)
	s.mu.Unlock()
	return s.masters, s.mastersErr
}

func (s *stubAdapter) FilingParties(ctx context.Context, documentIDs []string) ([]sources.FilingParty, error) {
	s.record("FilingParties")
	s.mu.Lock()
	s.partyIDs = append([]string{}, documentIDs...)
	s.mu.Unlock()
	return s.parties, s.partiesErr
}

func (s *stubAdapter) FilingPartiesByName(ctx context.Context, namePattern string) ([]sources.FilingParty, error) {
	s.record("FilingPartiesByName")
	return nil, nil
}

func (s *stubAdapter) CorporateEntities(ctx context.Context, namePattern string) ([]sources.CorporateEntity, error) {
	s.record("CorporateEntities")
	s.mu.Lock()
	s.corpLookups = append(s.corpLookups, namePattern)
	s.mu.Unlock()
	if s.corpErr != nil {
		return nil, s.corpErr
	}
	return s.corp[namePattern], nil
}

func (s *stubAdapter) RegistryContacts(ctx context.Context, f sources.ContactFilter) ([]sources.RegistryContact, error) {
	s.record("RegistryContacts")
	return nil, nil
}

func (s *stubAdapter) Registrations(ctx context.Context, registrationIDs []string) ([]sources.Registration, error) {
	s.record("Registrations")
	return nil, nil
}

func (s *stubAdapter) TaxAssessments(ctx context.Context, f sources.TaxFilter) ([]sources.TaxAssessment, error) {
	s.record("TaxAssessments")
	return nil, nil
}
