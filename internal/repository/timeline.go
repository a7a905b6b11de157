package repository

import (
	"context"

	apperrors "github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/scoring"
)

// TimelineRow is one mandate year of raw activity for a single politician.
// Years come from the expense records, which are the most complete signal of
// an active mandate year.
type TimelineRow struct {
	Year         int
	Raw          scoring.RawAggregate
	VoteCount    int
	ExpenseCount int
}

// TimelineData returns per-year raw aggregates for one politician, oldest
// year first. Each activity source is fetched grouped by year in a single
// query and merged in memory, so the cost stays at a handful of queries no
// matter how long the mandate.
func (r *Repository) TimelineData(ctx context.Context, pol Politician) ([]TimelineRow, error) {
	years, err := r.expenseYears(ctx, pol.ID)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return []TimelineRow{}, nil
	}

	attendance, err := r.attendanceByYear(ctx, pol.ID)
	if err != nil {
		return nil, err
	}
	production, err := r.productionByYear(ctx, pol.ID)
	if err != nil {
		return nil, err
	}
	spending, err := r.spendingByYear(ctx, pol.ID)
	if err != nil {
		return nil, err
	}
	votes, err := r.votesByYear(ctx, pol.ID)
	if err != nil {
		return nil, err
	}

	timeline := make([]TimelineRow, 0, len(years))
	for _, year := range years {
		sp := spending[year]
		timeline = append(timeline, TimelineRow{
			Year: year,
			Raw: scoring.RawAggregate{
				PoliticianID:     pol.ID,
				Name:             pol.Name,
				Region:           pol.Region,
				Party:            pol.Party,
				PhotoURL:         pol.PhotoURL,
				AttendanceRatio:  attendance[year],
				ProductionPoints: production[year],
				TotalSpending:    sp.total,
				ActiveMonths:     sp.months,
			},
			VoteCount:    votes[year],
			ExpenseCount: sp.count,
		})
	}

	return timeline, nil
}

func (r *Repository) expenseYears(ctx context.Context, politicianID int64) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT year FROM expenses WHERE politician_id = ? ORDER BY year`, politicianID)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query timeline years", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan timeline year", err)
		}
		years = append(years, year)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate timeline years", err)
	}
	return years, nil
}

func (r *Repository) attendanceByYear(ctx context.Context, politicianID int64) (map[int]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		CAST(strftime('%Y', session_date) AS INTEGER) AS year,
		ROUND(SUM(CASE WHEN status = 'present' THEN 1.0 ELSE 0.0 END) * 100.0 / NULLIF(COUNT(id), 0), 2) AS attendance_ratio
		FROM attendance
		WHERE politician_id = ?
		GROUP BY year`, politicianID)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query yearly attendance", err)
	}
	defer rows.Close()

	result := make(map[int]float64)
	for rows.Next() {
		var year int
		var ratio float64
		if err := rows.Scan(&year, &ratio); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan yearly attendance", err)
		}
		result[year] = ratio
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate yearly attendance", err)
	}
	return result, nil
}

func (r *Repository) productionByYear(ctx context.Context, politicianID int64) (map[int]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.year, `+r.productionCase()+` AS production_points
		FROM proposal_authors pa
		JOIN proposals p ON p.id = pa.proposal_id
		WHERE pa.politician_id = ?
		GROUP BY p.year`, politicianID)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query yearly production", err)
	}
	defer rows.Close()

	result := make(map[int]float64)
	for rows.Next() {
		var year int
		var points float64
		if err := rows.Scan(&year, &points); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan yearly production", err)
		}
		result[year] = points
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate yearly production", err)
	}
	return result, nil
}

type yearlySpending struct {
	total  float64
	months int
	count  int
}

func (r *Repository) spendingByYear(ctx context.Context, politicianID int64) (map[int]yearlySpending, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT year,
		SUM(net_value) AS total_spending,
		COUNT(DISTINCT month) AS active_months,
		COUNT(id) AS expense_count
		FROM expenses
		WHERE politician_id = ?
		GROUP BY year`, politicianID)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query yearly spending", err)
	}
	defer rows.Close()

	result := make(map[int]yearlySpending)
	for rows.Next() {
		var year int
		var sp yearlySpending
		if err := rows.Scan(&year, &sp.total, &sp.months, &sp.count); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan yearly spending", err)
		}
		result[year] = sp
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate yearly spending", err)
	}
	return result, nil
}

func (r *Repository) votesByYear(ctx context.Context, politicianID int64) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		CAST(strftime('%Y', vs.session_date) AS INTEGER) AS year,
		COUNT(v.id) AS vote_count
		FROM votes v
		JOIN voting_sessions vs ON vs.id = v.voting_session_id
		WHERE v.politician_id = ?
		GROUP BY year`, politicianID)
	if err != nil {
		return nil, apperrors.NewRetrievalError("failed to query yearly votes", err)
	}
	defer rows.Close()

	result := make(map[int]int)
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return nil, apperrors.NewRetrievalError("failed to scan yearly votes", err)
		}
		result[year] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewRetrievalError("failed to iterate yearly votes", err)
	}
	return result, nil
}
