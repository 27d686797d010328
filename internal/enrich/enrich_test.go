package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ownership-cli/internal/model"
	"github.com/sells-group/ownership-cli/internal/resolve"
	"github.com/sells-group/ownership-cli/internal/sources"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func newTestOrchestrator(adapter sources.Adapter, cfg Config) *Orchestrator {
	o := New(adapter, resolve.NewMatcher(resolve.DefaultMatchConfig()), cfg)
	return o.WithNow(func() time.Time { return testNow })
}

// Parcel owned through an LLC: the deed grantee individual shares the
// LLC's registered business address and should surface as the top-ranked
// candidate, linked to the entity.
func TestResolve_ShellEntityScenario(t *testing.T) {
	deedDate := testNow.AddDate(0, -6, 0).Format("2006-01-02")

	stub := newStubAdapter()
	stub.legals = []sources.FilingLegal{
		{DocumentID: "FT-1", Borough: 3, Block: 1234, Lot: 56, StreetNumber: "123", StreetName: "MAIN ST"},
	}
	stub.masters = []sources.FilingMaster{
		{DocumentID: "FT-1", DocType: "DEED", Amount: 2500000, RecordedDate: deedDate},
	}
	stub.parties = []sources.FilingParty{
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantee, Name: "Jane Doe",
			Address1: "99 BROKER WAY", City: "NEW YORK", State: "NY"},
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantor, Name: "Prior Holdings LP"},
	}
	stub.corp = map[string][]sources.CorporateEntity{
		"123 Main St LLC": {
			{CorpID: "55555", Name: "123 MAIN ST LLC", Status: "Active", DateFiled: "2018-06-01"},
		},
	}

	o := newTestOrchestrator(stub, DefaultConfig())
	result, err := o.Resolve(context.Background(), Request{
		Parcel:       model.Parcel{Borough: 3, Block: 1234, Lot: 56},
		TaxOwnerName: "123 Main St LLC",
		RegistryContacts: []sources.RegistryContact{
			{Type: "CorporateOwner", CorporateName: "123 Main St LLC",
				BusinessAddress: "99 BROKER WAY, NEW YORK, NY"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 3)

	jane := result.Candidates[0]
	assert.Equal(t, "JANE DOE", jane.Name)
	assert.False(t, jane.IsEntity)
	assert.GreaterOrEqual(t, jane.Confidence, 75)
	assert.Contains(t, jane.LinkedEntities, "123 MAIN ST LLC")
	assert.Equal(t, "Likely true owner", jane.Recommendation)

	llc := result.Candidates[1]
	assert.Equal(t, "123 MAIN ST LLC", llc.Name)
	assert.True(t, llc.IsEntity)
	assert.Contains(t, llc.LinkedEntities, "JANE DOE")
	assert.True(t, llc.HasSource(model.SourceCorporateRegistry))

	require.Len(t, result.CorporateRegistryHits, 1)
	assert.Equal(t, "55555", result.CorporateRegistryHits[0].CorpID)

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "DEED", result.Transactions[0].DocType)
	assert.Len(t, result.Transactions[0].Parties, 2)

	assert.Equal(t, 1, result.DataSourceCounts["filing_legals"])
	assert.Equal(t, 1, result.DataSourceCounts["filing_master"])
	assert.Equal(t, 2, result.DataSourceCounts["filing_parties"])
	assert.Equal(t, 1, result.DataSourceCounts["registry_contacts"])
	assert.Equal(t, 1, result.DataSourceCounts["corporate_registry"])

	// One lookup despite the name appearing twice in the request.
	assert.Equal(t, 1, stub.callCount("CorporateEntities"))
}

func TestResolve_MalformedParcel(t *testing.T) {
	stub := newStubAdapter()
	o := newTestOrchestrator(stub, DefaultConfig())

	result, err := o.Resolve(context.Background(), Request{
		Parcel:       model.Parcel{Borough: 9, Block: 1, Lot: 1},
		TaxOwnerName: "123 Main St LLC",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Transactions)
	assert.Zero(t, stub.totalCalls())
}

func TestResolve_SourceFailureDegrades(t *testing.T) {
	stub := newStubAdapter()
	stub.legals = []sources.FilingLegal{{DocumentID: "FT-1", Borough: 1, Block: 10, Lot: 1}}
	stub.mastersErr = errors.New("upstream 500")
	stub.parties = []sources.FilingParty{
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantee, Name: "Jane Doe"},
	}

	o := newTestOrchestrator(stub, DefaultConfig())
	result, err := o.Resolve(context.Background(), Request{
		Parcel:       model.Parcel{Borough: 1, Block: 10, Lot: 1},
		TaxOwnerName: "Acme Corp",
	})
	require.NoError(t, err)

	// Party signals survive without master metadata; the tax owner is there.
	names := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "JANE DOE")
	assert.Contains(t, names, "ACME CORP")
	assert.Equal(t, 0, result.DataSourceCounts["filing_master"])
	assert.Equal(t, 1, result.DataSourceCounts["filing_parties"])
}

func TestResolve_Deterministic(t *testing.T) {
	stub := newStubAdapter()
	stub.legals = []sources.FilingLegal{{DocumentID: "FT-1", Borough: 2, Block: 20, Lot: 2}}
	stub.masters = []sources.FilingMaster{{DocumentID: "FT-1", DocType: "DEED", RecordedDate: "2024-05-01"}}
	stub.parties = []sources.FilingParty{
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantee, Name: "Jane Doe"},
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantor, Name: "Bob Roe"},
	}
	stub.corp = map[string][]sources.CorporateEntity{
		"Alpha Realty": {{CorpID: "1", Name: "ALPHA REALTY", Status: "Active"}},
		"Beta Group":   {{CorpID: "2", Name: "BETA GROUP", Status: "Active"}},
	}

	req := Request{
		Parcel:       model.Parcel{Borough: 2, Block: 20, Lot: 2},
		TaxOwnerName: "Alpha Realty",
		RegistryContacts: []sources.RegistryContact{
			{CorporateName: "Beta Group"},
		},
	}

	o := newTestOrchestrator(stub, DefaultConfig())
	first, err := o.Resolve(context.Background(), req)
	require.NoError(t, err)
	second, err := o.Resolve(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Candidates), len(second.Candidates))
	for i := range first.Candidates {
		assert.Equal(t, first.Candidates[i].Name, second.Candidates[i].Name)
		assert.Equal(t, first.Candidates[i].Confidence, second.Candidates[i].Confidence)
	}
	assert.Equal(t, first.CorporateRegistryHits, second.CorporateRegistryHits)
}

func TestResolve_RankedByConfidence(t *testing.T) {
	stub := newStubAdapter()
	stub.legals = []sources.FilingLegal{{DocumentID: "FT-1", Borough: 1, Block: 5, Lot: 5}}
	stub.masters = []sources.FilingMaster{{DocumentID: "FT-1", DocType: "DEED", RecordedDate: "2026-01-15"}}
	stub.parties = []sources.FilingParty{
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantee, Name: "Jane Doe"},
		{DocumentID: "FT-1", RoleCode: sources.PartyRoleGrantor, Name: "Bob Roe"},
	}

	o := newTestOrchestrator(stub, DefaultConfig())
	result, err := o.Resolve(context.Background(), Request{
		Parcel: model.Parcel{Borough: 1, Block: 5, Lot: 5},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Candidates)

	for i := 1; i < len(result.Candidates); i++ {
		assert.GreaterOrEqual(t, result.Candidates[i-1].Confidence, result.Candidates[i].Confidence)
	}
	for _, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.Confidence, 0)
		assert.LessOrEqual(t, c.Confidence, 100)
	}
}

func TestResolve_DocIDLimit(t *testing.T) {
	stub := newStubAdapter()
	for _, id := range []string{"A", "B", "C", "D", "A"} {
		stub.legals = append(stub.legals, sources.FilingLegal{DocumentID: id, Borough: 1, Block: 1, Lot: 1})
	}

	o := newTestOrchestrator(stub, Config{DocIDLimit: 2, CorporateLookupLimit: 3, AdapterTimeout: time.Second})
	_, err := o.Resolve(context.Background(), Request{Parcel: model.Parcel{Borough: 1, Block: 1, Lot: 1}})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, stub.masterIDs)
	assert.Equal(t, []string{"A", "B"}, stub.partyIDs)
}

func TestResolve_CorporateLookupLimit(t *testing.T) {
	stub := newStubAdapter()
	o := newTestOrchestrator(stub, Config{DocIDLimit: 40, CorporateLookupLimit: 2, AdapterTimeout: time.Second})

	_, err := o.Resolve(context.Background(), Request{
		Parcel:       model.Parcel{Borough: 1, Block: 1, Lot: 1},
		TaxOwnerName: "Alpha Realty LLC",
		RegistryContacts: []sources.RegistryContact{
			{CorporateName: "Beta Group Inc"},
			{CorporateName: "Gamma Holdings Corp"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stub.callCount("CorporateEntities"))
}

func TestResolve_Canceled(t *testing.T) {
	stub := newStubAdapter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(stub, DefaultConfig())
	_, err := o.Resolve(ctx, Request{Parcel: model.Parcel{Borough: 1, Block: 1, Lot: 1}})
	assert.Error(t, err)
}
