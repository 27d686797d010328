package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ownership-cli/internal/model"
)

func newTestSet(t *testing.T) *CandidateSet {
	t.Helper()
	return NewCandidateSet(NewMatcher(DefaultMatchConfig()))
}

func TestGetOrCreate_MergesSpellings(t *testing.T) {
	set := newTestSet(t)

	h1 := set.GetOrCreate("John Smith")
	h2 := set.GetOrCreate("JOHN SMITH")
	h3 := set.GetOrCreate("Smith, John")
	assert.Equal(t, h1, h2)
	assert.Equal(t, h1, h3)
	assert.Equal(t, 1, set.Len())

	set.AddSignal(h1, model.Signal{Source: model.SourceTaxRecord, Role: "Tax Record Owner"})
	set.AddSignal(h2, model.Signal{Source: model.SourceDeedFiling, Role: "Deed Grantee (Buyer)"})

	cands := set.Candidates()
	require.Len(t, cands, 1)
	assert.Equal(t, "JOHN SMITH", cands[0].Name)
	assert.Len(t, cands[0].Signals, 2)
}

func TestGetOrCreate_EmptyNameDiscarded(t *testing.T) {
	set := newTestSet(t)

	assert.Equal(t, None, set.GetOrCreate("   "))
	assert.Equal(t, None, set.GetOrCreate(""))
	assert.Equal(t, 0, set.Len())

	// Attaching to None is a no-op.
	set.AddSignal(None, model.Signal{Source: model.SourceTaxRecord})
	set.AddContact(None, model.ContactInfo{Value: "x"})
	assert.Equal(t, 0, set.Len())
}

func TestGetOrCreate_DistinctNames(t *testing.T) {
	set := newTestSet(t)

	h1 := set.GetOrCreate("ABC Realty LLC")
	h2 := set.GetOrCreate("XYZ Corp")
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, set.Len())
}

func TestGetOrCreate_EntityFlag(t *testing.T) {
	set := newTestSet(t)

	set.GetOrCreate("123 Main St LLC")
	set.GetOrCreate("Jane Doe")

	cands := set.Candidates()
	require.Len(t, cands, 2)
	assert.True(t, cands[0].IsEntity)
	assert.False(t, cands[1].IsEntity)
}

func TestAddContact_Dedup(t *testing.T) {
	set := newTestSet(t)

	h := set.GetOrCreate("Jane Doe")
	set.AddContact(h, model.ContactInfo{Type: "address", Value: "99 BROKER WAY, NEW YORK, NY"})
	set.AddContact(h, model.ContactInfo{Type: "address", Value: "99 BROKER WAY, NEW YORK, NY"})
	set.AddContact(h, model.ContactInfo{Type: "address", Value: ""})

	cands := set.Candidates()
	require.Len(t, cands, 1)
	assert.Len(t, cands[0].ContactInfo, 1)
}

func TestCandidates_CopiesOut(t *testing.T) {
	set := newTestSet(t)
	set.GetOrCreate("Jane Doe")

	out := set.Candidates()
	out[0].Name = "MUTATED"
	assert.Equal(t, "JANE DOE", set.Candidates()[0].Name)
}
