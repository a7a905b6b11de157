package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/parlametro/parlametro/internal/config"
	"github.com/parlametro/parlametro/internal/database"
	apperrors "github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/scoring"
)

// Politician is the identity row behind every aggregate.
type Politician struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Party    string `json:"party"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Repository translates politician/year selectors into the raw aggregates the
// scoring engine consumes. All queries are parameterized; the only
// interpolated fragments are the production weight tables, which are policy
// configuration, never user input.
type Repository struct {
	db      *database.DB
	weights config.ProductionWeights
}

// New creates a Repository bound to the store and the production weights.
func New(db *database.DB, weights config.ProductionWeights) *Repository {
	return &Repository{db: db, weights: weights}
}

// GetPolitician fetches one politician's identity row.
func (r *Repository) GetPolitician(ctx context.Context, id int64) (Politician, error) {
	var p Politician
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, region, party, photo_url FROM politicians WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Region, &p.Party, &p.PhotoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Politician{}, apperrors.NewNotFoundError("politician not found")
		}
		return Politician{}, apperrors.NewRetrievalError("failed to fetch politician", err)
	}
	return p, nil
}

// productionCase renders the tiered production weighting as a SQL aggregate.
// Instruments in the high tier earn full points for the principal proponent
// and a fraction for co-signers; lower tiers scale down from there.
func (r *Repository) productionCase() string {
	w := r.weights
	return "SUM(CASE" +
		" WHEN p.instrument_type IN (" + quoteList(w.HighImpactTypes) + ")" +
		" THEN CASE WHEN pa.proponent THEN " + formatWeight(w.HighProponent) + " ELSE " + formatWeight(w.HighCoSigner) + " END" +
		" WHEN p.instrument_type IN (" + quoteList(w.MediumImpactTypes) + ")" +
		" THEN CASE WHEN pa.proponent THEN " + formatWeight(w.MediumProponent) + " ELSE " + formatWeight(w.MediumCoSigner) + " END" +
		" ELSE CASE WHEN pa.proponent THEN " + formatWeight(w.OtherProponent) + " ELSE " + formatWeight(w.OtherCoSigner) + " END" +
		" END)"
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "") + "'"
	}
	return strings.Join(quoted, ",")
}

func formatWeight(w float64) string {
	return fmt.Sprintf("%g", w)
}

// buildPerformanceQuery assembles the three grouped aggregations
// (attendance, production, spending + active months) outer-joined by
// politician id. Missing sides of a join default to zero/neutral values, so
// a politician with no recorded activity still yields a valid aggregate.
//
// With a year filter, "active months" means distinct months with expense
// activity within that year instead of the mandate-wide month span.
func (r *Repository) buildPerformanceQuery(politicianID int64, year int) (string, []interface{}) {
	byID := politicianID != 0
	byYear := year != 0

	var args []interface{}

	attendance := `SELECT politician_id,
		ROUND(SUM(CASE WHEN status = 'present' THEN 1.0 ELSE 0.0 END) * 100.0 / NULLIF(COUNT(id), 0), 2) AS attendance_ratio
		FROM attendance`
	var attendanceWhere []string
	if byID {
		attendanceWhere = append(attendanceWhere, "politician_id = ?")
		args = append(args, politicianID)
	}
	if byYear {
		attendanceWhere = append(attendanceWhere, "CAST(strftime('%Y', session_date) AS INTEGER) = ?")
		args = append(args, year)
	}
	if len(attendanceWhere) > 0 {
		attendance += " WHERE " + strings.Join(attendanceWhere, " AND ")
	}
	attendance += " GROUP BY politician_id"

	production := `SELECT pa.politician_id, ` + r.productionCase() + ` AS production_points
		FROM proposal_authors pa
		JOIN proposals p ON p.id = pa.proposal_id`
	var productionWhere []string
	if byID {
		productionWhere = append(productionWhere, "pa.politician_id = ?")
		args = append(args, politicianID)
	}
	if byYear {
		productionWhere = append(productionWhere, "p.year = ?")
		args = append(args, year)
	}
	if len(productionWhere) > 0 {
		production += " WHERE " + strings.Join(productionWhere, " AND ")
	}
	production += " GROUP BY pa.politician_id"

	activeMonths := "COUNT(DISTINCT year || '-' || month)"
	if byYear {
		activeMonths = "COUNT(DISTINCT month)"
	}
	spending := `SELECT politician_id, SUM(net_value) AS total_spending, ` + activeMonths + ` AS active_months
		FROM expenses`
	var spendingWhere []string
	if byID {
		spendingWhere = append(spendingWhere, "politician_id = ?")
		args = append(args, politicianID)
	}
	if byYear {
		spendingWhere = append(spendingWhere, "year = ?")
		args = append(args, year)
	}
	if len(spendingWhere) > 0 {
		spending += " WHERE " + strings.Join(spendingWhere, " AND ")
	}
	spending += " GROUP BY politician_id"

	query := `SELECT pol.id, pol.name, pol.region, pol.party, pol.photo_url,
		COALESCE(att.attendance_ratio, 0) AS attendance_ratio,
		COALESCE(prod.production_points, 0) AS production_points,
		COALESCE(sp.total_spending, 0) AS total_spending,
		COALESCE(sp.active_months, 1) AS active_months
		FROM politicians pol
		LEFT JOIN (` + attendance + `) att ON att.politician_id = pol.id
		LEFT JOIN (` + production + `) prod ON prod.politician_id = pol.id
		LEFT JOIN (` + spending + `) sp ON sp.politician_id = pol.id`
	if byID {
		query += " WHERE pol.id = ?"
		args = append(args, politicianID)
	}

	return query, args
}

// PerformanceAll returns raw aggregates for every politician in one pass,
// covering the whole mandate. Used by the ranking orchestrator; never issues
// one query per politician.
func (r *Repository) PerformanceAll(ctx context.Context) ([]scoring.RawAggregate, error) {
	query, args := r.buildPerformanceQuery(0, 0)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query performance aggregates", err)
	}
	defer rows.Close()

	var aggregates []scoring.RawAggregate
	for rows.Next() {
		var agg scoring.RawAggregate
		if err := rows.Scan(
			&agg.PoliticianID, &agg.Name, &agg.Region, &agg.Party, &agg.PhotoURL,
			&agg.AttendanceRatio, &agg.ProductionPoints, &agg.TotalSpending, &agg.ActiveMonths,
		); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan performance aggregate", err)
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate performance aggregates", err)
	}

	return aggregates, nil
}

// PerformanceByID returns the raw aggregate for one politician, optionally
// restricted to a single year (year == 0 means whole mandate). The same
// subqueries back PerformanceAll, so individual and ranking numbers agree.
func (r *Repository) PerformanceByID(ctx context.Context, politicianID int64, year int) (scoring.RawAggregate, error) {
	query, args := r.buildPerformanceQuery(politicianID, year)

	var agg scoring.RawAggregate
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&agg.PoliticianID, &agg.Name, &agg.Region, &agg.Party, &agg.PhotoURL,
		&agg.AttendanceRatio, &agg.ProductionPoints, &agg.TotalSpending, &agg.ActiveMonths,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoring.RawAggregate{}, apperrors.NewNotFoundError("politician not found")
		}
		return scoring.RawAggregate{}, apperrors.NewRetrievalError("failed to query performance aggregate", err)
	}

	return agg, nil
}
