package ranking

import (
	"context"

	"github.com/parlametro/parlametro/internal/scoring"
)

// TimelineStats summarizes the raw activity volume behind one timeline year.
type TimelineStats struct {
	Votes          int     `json:"votes"`
	ExpenseRecords int     `json:"expense_records"`
	TotalSpending  float64 `json:"total_spending"`
	MonthlyAverage float64 `json:"monthly_average"`
}

// TimelineQuota is the quota context for one timeline year.
type TimelineQuota struct {
	MonthlyQuota float64 `json:"monthly_quota"`
	ActiveMonths int     `json:"active_months"`
	TotalQuota   float64 `json:"total_quota"`
	QuotaUsedPct float64 `json:"quota_used_pct"`
}

// TimelineEntry is one mandate year scored with that year's activity only.
type TimelineEntry struct {
	Year      int               `json:"year"`
	Score     float64           `json:"score"`
	Subscores scoring.Subscores `json:"subscores"`
	Stats     TimelineStats     `json:"stats"`
	Quota     TimelineQuota     `json:"quota"`
}

// Timeline is the year-by-year evolution of one politician's score.
type Timeline struct {
	PoliticianID int64           `json:"politician_id"`
	Name         string          `json:"name"`
	Region       string          `json:"region"`
	Party        string          `json:"party"`
	Years        []TimelineEntry `json:"years"`
}

// TimelineForOne scores each mandate year independently. The month
// denominator is that year's active expense months, clamped to [1,12], so a
// partial first or last year is not judged against a full-year quota.
func (s *Service) TimelineForOne(ctx context.Context, politicianID int64) (Timeline, error) {
	pol, err := s.reader.GetPolitician(ctx, politicianID)
	if err != nil {
		return Timeline{}, err
	}

	rows, err := s.reader.TimelineData(ctx, pol)
	if err != nil {
		return Timeline{}, err
	}

	timeline := Timeline{
		PoliticianID: pol.ID,
		Name:         pol.Name,
		Region:       pol.Region,
		Party:        pol.Party,
		Years:        make([]TimelineEntry, 0, len(rows)),
	}

	for _, row := range rows {
		months := row.Raw.ActiveMonths
		if months < 1 {
			months = 1
		}
		if months > 12 {
			months = 12
		}

		result := s.calc.Score(row.Raw, months)

		timeline.Years = append(timeline.Years, TimelineEntry{
			Year:      row.Year,
			Score:     result.Score,
			Subscores: result.Subscores,
			Stats: TimelineStats{
				Votes:          row.VoteCount,
				ExpenseRecords: row.ExpenseCount,
				TotalSpending:  row.Raw.TotalSpending,
				MonthlyAverage: round2(row.Raw.TotalSpending / float64(months)),
			},
			Quota: TimelineQuota{
				MonthlyQuota: result.Meta.MonthlyQuota,
				ActiveMonths: months,
				TotalQuota:   result.Meta.TotalQuota,
				QuotaUsedPct: result.Meta.SpendingUsedPct,
			},
		})
	}

	return timeline, nil
}
