package portfolio

import (
	"context"
	"sync"

	"github.com/sells-group/ownership-cli/internal/sources"
)

// stubAdapter is a hand-written sources.Adapter for discovery tests. Canned
// records are keyed the way the discoverer queries: parties by name
// pattern, legals and masters by document id, contacts by filter value.
// Safe for the concurrent per-name searches.
type stubAdapter struct {
	mu             sync.Mutex
	calls          map[string]int
	contactFilters []sources.ContactFilter
	taxFilters     []sources.TaxFilter

	partiesByName map[string][]sources.FilingParty
	legalsByDoc   map[string][]sources.FilingLegal
	mastersByDoc  map[string]sources.FilingMaster
	contacts      map[string][]sources.RegistryContact
	registrations map[string]sources.Registration
	assessments   map[int][]sources.TaxAssessment

	partiesErr error
	taxErr     error
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

func (s *stubAdapter) FilingLegals(ctx context.Context, f sources.LegalsFilter) ([]sources.FilingLegal, error) {
	s.record("FilingLegals")
	return nil, nil
}

func (s *stubAdapter) FilingLegalsByDocuments(ctx context.Context, documentIDs []string) ([]sources.FilingLegal, error) {
	s.record("FilingLegalsByDocuments")
	var out []sources.FilingLegal
	for _, id := range documentIDs {
		out = append(out, s.legalsByDoc[id]...)
	}
	return out, nil
}

func (s *stubAdapter) FilingMasters(ctx context.Context, documentIDs []string) ([]sources.FilingMaster, error) {
	s.record("FilingMasters")
	var out []sources.FilingMaster
	for _, id := range documentIDs {
		if m, ok := s.mastersByDoc[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubAdapter) FilingParties(ctx context.Context, documentIDs []string) ([]sources.FilingParty, error) {
	s.record("FilingParties")
	return nil, nil
}

func (s *stubAdapter) FilingPartiesByName(ctx context.Context, namePattern string) ([]sources.FilingParty, error) {
	s.record("FilingPartiesByName")
	if s.partiesErr != nil {
		return nil, s.partiesErr
	}
	return s.partiesByName[namePattern], nil
}

func (s *stubAdapter) CorporateEntities(ctx context.Context, namePattern string) ([]sources.CorporateEntity, error) {
	s.record("CorporateEntities")
	return nil, nil
}

func (s *stubAdapter) RegistryContacts(ctx context.Context, f sources.ContactFilter) ([]sources.RegistryContact, error) {
	s.record("RegistryContacts")
	s.mu.Lock()
	s.contactFilters = append(s.contactFilters, f)
	s.mu.Unlock()
	key := f.CorporateName
	if key == "" {
		key = f.LastName
	}
	return s.contacts[key], nil
}

func (s *stubAdapter) Registrations(ctx context.Context, registrationIDs []string) ([]sources.Registration, error) {
	s.record("Registrations")
	var out []sources.Registration
	for _, id := range registrationIDs {
		if r, ok := s.registrations[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubAdapter) TaxAssessments(ctx context.Context, f sources.TaxFilter) ([]sources.TaxAssessment, error) {
	s.record("TaxAssessments")
	s.mu.Lock()
	s.taxFilters = append(s.taxFilters, f)
	s.mu.Unlock()
	if s.taxErr != nil {
		return nil, s.taxErr
	}
	return s.assessments[f.Borough], nil
}
