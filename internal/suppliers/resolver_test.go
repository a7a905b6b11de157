package suppliers

import (
	"testing"

	"github.com/parlametro/parlametro/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(config.DefaultPolicy().VendorAliases)
}

func TestRankMergesAliasedVendors(t *testing.T) {
	resolver := newTestResolver()

	// Same airline under three spellings, one row missing the fiscal id.
	rows := []Row{
		{FiscalID: "", Name: "TAM", Total: 500},
		{FiscalID: "02012862000160", Name: "LATAM LINHAS AEREAS S.A", Total: 700},
		{FiscalID: "", Name: "latam airlines brasil ", Total: 300},
	}

	ranking := resolver.Rank(rows, 10, 0)

	assert.Len(t, ranking, 1)
	assert.Equal(t, "02012862000160", ranking[0].FiscalID)
	assert.Equal(t, "LATAM AIRLINES", ranking[0].Name)
	assert.Equal(t, 1500.0, ranking[0].TotalReceived)
}

func TestRankMergeSumInvariant(t *testing.T) {
	resolver := newTestResolver()

	rows := []Row{
		{FiscalID: "", Name: "TAM", Total: 100},
		{FiscalID: "02012862000160", Name: "LATAM AIRLINES", Total: 200},
		{FiscalID: "11111111000111", Name: "POSTO BRASIL", Total: 50},
		{FiscalID: "", Name: "PADARIA CENTRAL", Total: 25},
	}

	ranking := resolver.Rank(rows, 100, 0)

	total := 0.0
	for _, entry := range ranking {
		total += entry.TotalReceived
	}
	assert.Equal(t, 375.0, total)
}

func TestRankKeepsUnidentifiedVendorsSeparate(t *testing.T) {
	resolver := newTestResolver()

	rows := []Row{
		{FiscalID: "", Name: "PADARIA DO ZE", Total: 100},
		{FiscalID: "", Name: "PADARIA DA MARIA", Total: 90},
	}

	ranking := resolver.Rank(rows, 10, 0)

	assert.Len(t, ranking, 2)
	assert.Equal(t, "PADARIA DO ZE", ranking[0].Name)
	assert.Equal(t, "", ranking[0].FiscalID)
	assert.Equal(t, "PADARIA DA MARIA", ranking[1].Name)
}

func TestRankOrderAndPaging(t *testing.T) {
	resolver := newTestResolver()

	rows := []Row{
		{FiscalID: "1", Name: "A", Total: 10},
		{FiscalID: "2", Name: "B", Total: 30},
		{FiscalID: "3", Name: "C", Total: 20},
		{FiscalID: "4", Name: "D", Total: 20},
	}

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []string
	}{
		{name: "descending with name tiebreak", limit: 10, offset: 0, expected: []string{"B", "C", "D", "A"}},
		{name: "limit cuts tail", limit: 2, offset: 0, expected: []string{"B", "C"}},
		{name: "offset into ranking", limit: 2, offset: 1, expected: []string{"C", "D"}},
		{name: "offset beyond ranking is empty", limit: 2, offset: 10, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranking := resolver.Rank(rows, tt.limit, tt.offset)

			names := make([]string, len(ranking))
			for i, entry := range ranking {
				names[i] = entry.Name
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}
