package repository

import (
	"context"
	"strings"

	apperrors "github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/suppliers"
)

// ExpenseRankEntry is one politician's total declared spending.
type ExpenseRankEntry struct {
	PoliticianID  int64   `json:"id"`
	Name          string  `json:"name"`
	Region        string  `json:"region"`
	Party         string  `json:"party"`
	PhotoURL      string  `json:"photo_url,omitempty"`
	TotalSpending float64 `json:"total_spending"`
}

// SpeechRankEntry is one politician's plenary speech count.
type SpeechRankEntry struct {
	PoliticianID int64  `json:"id"`
	Name         string `json:"name"`
	Region       string `json:"region"`
	Party        string `json:"party"`
	PhotoURL     string `json:"photo_url,omitempty"`
	SpeechCount  int    `json:"speech_count"`
}

// ExpenseRanking lists politicians by total spending, descending. query
// matches substrings of the name case-insensitively; region filters by exact
// federative unit. Empty filters match everything.
func (r *Repository) ExpenseRanking(ctx context.Context, query, region string, limit, offset int) ([]ExpenseRankEntry, error) {
	sqlQuery := `SELECT pol.id, pol.name, pol.region, pol.party, pol.photo_url,
		COALESCE(SUM(e.net_value), 0) AS total_spending
		FROM politicians pol
		LEFT JOIN expenses e ON e.politician_id = pol.id`

	var where []string
	var args []interface{}
	if query != "" {
		where = append(where, "UPPER(pol.name) LIKE '%' || UPPER(?) || '%'")
		args = append(args, query)
	}
	if region != "" {
		where = append(where, "UPPER(pol.region) = UPPER(?)")
		args = append(args, region)
	}
	if len(where) > 0 {
		sqlQuery += " WHERE " + strings.Join(where, " AND ")
	}
	sqlQuery += ` GROUP BY pol.id ORDER BY total_spending DESC, pol.id ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query expense ranking", err)
	}
	defer rows.Close()

	var entries []ExpenseRankEntry
	for rows.Next() {
		var e ExpenseRankEntry
		if err := rows.Scan(&e.PoliticianID, &e.Name, &e.Region, &e.Party, &e.PhotoURL, &e.TotalSpending); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan expense ranking row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate expense ranking", err)
	}

	return entries, nil
}

// SupplierRows returns grouped (fiscal id, name) spending pairs, largest
// first. Callers over-fetch here and hand the rows to the supplier resolver,
// which may merge pairs and change the order.
func (r *Repository) SupplierRows(ctx context.Context, fetchLimit int) ([]suppliers.Row, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		COALESCE(supplier_fiscal_id, '') AS fiscal_id,
		UPPER(TRIM(supplier_name)) AS supplier_name,
		SUM(net_value) AS total
		FROM expenses
		WHERE TRIM(supplier_name) != '' OR COALESCE(supplier_fiscal_id, '') != ''
		GROUP BY fiscal_id, supplier_name
		ORDER BY total DESC
		LIMIT ?`, fetchLimit)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query supplier totals", err)
	}
	defer rows.Close()

	var result []suppliers.Row
	for rows.Next() {
		var row suppliers.Row
		if err := rows.Scan(&row.FiscalID, &row.Name, &row.Total); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan supplier row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate supplier totals", err)
	}

	return result, nil
}

// SpeechCountRanking lists politicians by number of recorded speeches,
// descending. Politicians with no speeches are excluded by the inner join.
func (r *Repository) SpeechCountRanking(ctx context.Context, limit, offset int) ([]SpeechRankEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pol.id, pol.name, pol.region, pol.party, pol.photo_url,
		COUNT(s.id) AS speech_count
		FROM politicians pol
		JOIN speeches s ON s.politician_id = pol.id
		GROUP BY pol.id
		ORDER BY speech_count DESC, pol.id ASC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query speech ranking", err)
	}
	defer rows.Close()

	var entries []SpeechRankEntry
	for rows.Next() {
		var e SpeechRankEntry
		if err := rows.Scan(&e.PoliticianID, &e.Name, &e.Region, &e.Party, &e.PhotoURL, &e.SpeechCount); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan speech ranking row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate speech ranking", err)
	}

	return entries, nil
}

// SpeechKeywords fetches the raw keyword strings for the given politicians,
// keyed by politician id. Rows without keywords are skipped at the store.
func (r *Repository) SpeechKeywords(ctx context.Context, politicianIDs []int64) (map[int64][]string, error) {
	if len(politicianIDs) == 0 {
		return map[int64][]string{}, nil
	}

	placeholders := make([]string, len(politicianIDs))
	args := make([]interface{}, len(politicianIDs))
	for i, id := range politicianIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, `SELECT politician_id, keywords
		FROM speeches
		WHERE politician_id IN (`+strings.Join(placeholders, ",")+`)
		AND keywords IS NOT NULL AND keywords != ''`, args...)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query speech keywords", err)
	}
	defer rows.Close()

	keywords := make(map[int64][]string, len(politicianIDs))
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan speech keywords", err)
		}
		keywords[id] = append(keywords[id], raw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate speech keywords", err)
	}

	return keywords, nil
}
