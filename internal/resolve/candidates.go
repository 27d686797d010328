package resolve

import (
	"github.com/sells-group/ownership-cli/internal/model"
)

// Handle is an index into a CandidateSet. Callers hold handles rather than
// live references so the set remains the only mutation path.
type Handle int

// None is the handle returned for names that normalize to empty.
const None Handle = -1

// CandidateSet is the candidate arena for one resolution run. Candidates
// are stored in collection order; a normalized-name index serves exact
// lookups, with a linear NamesMatch scan over the index keys folding
// near-duplicate spellings onto existing candidates.
//
// Not safe for concurrent use: orchestrators serialize all mutations.
type CandidateSet struct {
	matcher    *Matcher
	candidates []model.OwnerCandidate
	index      map[string]Handle
	keys       []string // index keys in insertion order, for deterministic scans
}

// NewCandidateSet creates an empty candidate set.
func NewCandidateSet(m *Matcher) *CandidateSet {
	return &CandidateSet{
		matcher: m,
		index:   make(map[string]Handle),
	}
}

// GetOrCreate returns the handle for the candidate matching rawName,
// creating one if no existing candidate matches. This is the single merge
// point: every signal-attachment site routes through it. Returns None for
// names that normalize to empty.
func (s *CandidateSet) GetOrCreate(rawName string) Handle {
	normalized := Normalize(rawName)
	if normalized == "" {
		return None
	}

	if h, ok := s.index[normalized]; ok {
		return h
	}

	// Fold near-duplicates: scan only the index keys, not the signals.
	for _, key := range s.keys {
		if NamesMatch(normalized, key) {
			return s.index[key]
		}
	}

	h := Handle(len(s.candidates))
	s.candidates = append(s.candidates, model.OwnerCandidate{
		Name:     normalized,
		IsEntity: s.matcher.IsEntity(rawName),
	})
	s.index[normalized] = h
	s.keys = append(s.keys, normalized)
	return h
}

// AddSignal appends a signal to the candidate. Signals are append-only
// during collection.
func (s *CandidateSet) AddSignal(h Handle, sig model.Signal) {
	if h == None {
		return
	}
	s.candidates[h].Signals = append(s.candidates[h].Signals, sig)
}

// AddContact attaches contact info to the candidate, deduplicated by exact
// value.
func (s *CandidateSet) AddContact(h Handle, ci model.ContactInfo) {
	if h == None {
		return
	}
	s.candidates[h].AddContact(ci)
}

// Len returns the number of candidates.
func (s *CandidateSet) Len() int { return len(s.candidates) }

// at returns a pointer into the arena for in-place finalization passes
// (linking, scoring). Internal: handles stay valid because the arena only
// grows.
func (s *CandidateSet) at(h Handle) *model.OwnerCandidate {
	return &s.candidates[h]
}

// Candidates copies the candidates out in collection order. The caller
// owns the returned slice; the set is discarded at the end of the run.
func (s *CandidateSet) Candidates() []model.OwnerCandidate {
	out := make([]model.OwnerCandidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}
