package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddContact(t *testing.T) {
	c := &OwnerCandidate{Name: "JANE DOE"}

	assert.True(t, c.AddContact(ContactInfo{Type: "address", Value: "99 BROKER WAY"}))
	assert.False(t, c.AddContact(ContactInfo{Type: "address", Value: "99 BROKER WAY"}))
	assert.False(t, c.AddContact(ContactInfo{Type: "address", Value: ""}))
	assert.Len(t, c.ContactInfo, 1)
	assert.True(t, c.HasContact("99 BROKER WAY"))
	assert.False(t, c.HasContact("1 ELM ST"))
}

func TestAddLink(t *testing.T) {
	c := &OwnerCandidate{Name: "JANE DOE"}

	c.AddLink("123 MAIN ST LLC")
	c.AddLink("123 MAIN ST LLC")
	c.AddLink("OTHER CORP")
	assert.Equal(t, []string{"123 MAIN ST LLC", "OTHER CORP"}, c.LinkedEntities)
	assert.True(t, c.HasLink("OTHER CORP"))
}

func TestDistinctSources(t *testing.T) {
	c := &OwnerCandidate{Signals: []Signal{
		{Source: SourceTaxRecord},
		{Source: SourceDeedFiling},
		{Source: SourceDeedFiling},
		{Source: SourceCorporateRegistry},
	}}
	assert.Equal(t, 3, c.DistinctSources())
	assert.True(t, c.HasSource(SourceCorporateRegistry))
	assert.False(t, c.HasSource(SourceMortgageFiling))
}
