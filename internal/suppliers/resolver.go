package suppliers

import (
	"sort"
	"strings"

	"github.com/parlametro/parlametro/internal/config"
)

// Row is one grouped supplier aggregate from the store: a raw
// (fiscal id, name) pair with the total already summed per pair.
type Row struct {
	FiscalID string
	Name     string
	Total    float64
}

// Entry is a resolved supplier identity with its accumulated payout.
type Entry struct {
	FiscalID      string  `json:"fiscal_id"`
	Name          string  `json:"supplier_name"`
	TotalReceived float64 `json:"total_received"`
}

// Resolver deduplicates noisy supplier rows into canonical identities.
//
// Resolution key: the fiscal id when non-empty (original or alias-provided),
// otherwise a synthetic key derived from the display name. Two distinct
// unidentified suppliers are never merged by accident, but one name spelled
// two ways with no fiscal id stays split unless the alias table covers it.
type Resolver struct {
	aliases map[string]config.VendorAlias
}

// NewResolver builds a Resolver from the alias table. Alias keys are matched
// against normalized names, so they are normalized here too.
func NewResolver(aliases map[string]config.VendorAlias) *Resolver {
	normalized := make(map[string]config.VendorAlias, len(aliases))
	for name, alias := range aliases {
		normalized[strings.ToUpper(strings.TrimSpace(name))] = alias
	}
	return &Resolver{aliases: normalized}
}

// syntheticKeyPrefix marks name-derived keys so they can never collide with
// a real fiscal id.
const syntheticKeyPrefix = "NOCNPJ_"

// Rank resolves, re-aggregates and sorts the rows descending by total, then
// applies offset/limit. Paging happens after the full in-memory resort
// because merging can change relative order versus the raw grouped query.
func (r *Resolver) Rank(rows []Row, limit, offset int) []Entry {
	totals := make(map[string]float64)
	identities := make(map[string]Entry)

	for _, row := range rows {
		name := strings.ToUpper(strings.TrimSpace(row.Name))
		fiscalID := strings.TrimSpace(row.FiscalID)

		if alias, ok := r.aliases[name]; ok {
			fiscalID = alias.FiscalID
			name = alias.Name
		}

		key := fiscalID
		if key == "" {
			key = syntheticKeyPrefix + name
		}

		totals[key] += row.Total
		if _, seen := identities[key]; !seen {
			identities[key] = Entry{FiscalID: fiscalID, Name: name}
		}
	}

	ranking := make([]Entry, 0, len(identities))
	for key, entry := range identities {
		entry.TotalReceived = totals[key]
		ranking = append(ranking, entry)
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalReceived != ranking[j].TotalReceived {
			return ranking[i].TotalReceived > ranking[j].TotalReceived
		}
		return ranking[i].Name < ranking[j].Name
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranking) {
		return []Entry{}
	}
	end := offset + limit
	if limit <= 0 || end > len(ranking) {
		end = len(ranking)
	}
	return ranking[offset:end]
}
