package scoring

import (
	"math"
	"strings"

	"github.com/parlametro/parlametro/internal/config"
)

// Score weights. Fixed policy, not tunable per call: the ranking, the
// individual performance view and the timeline must all agree on the same
// formula.
const (
	weightAttendance = 0.15
	weightEconomy    = 0.40
	weightProduction = 0.45
)

// Calculator turns a RawAggregate into a ScoreResult. Pure: no I/O, no
// state beyond the policy tables it was built with, so two calls on the same
// input produce identical output.
type Calculator struct {
	quotas       map[string]float64
	defaultQuota float64
	targetPerMo  float64
}

// NewCalculator builds a Calculator from the policy tables.
func NewCalculator(p config.Policy) *Calculator {
	quotas := make(map[string]float64, len(p.MonthlyQuotas))
	for region, quota := range p.MonthlyQuotas {
		quotas[strings.ToUpper(region)] = quota
	}
	return &Calculator{
		quotas:       quotas,
		defaultQuota: p.DefaultMonthlyQuota,
		targetPerMo:  p.ProductionTargetPerMonth,
	}
}

// MonthlyQuota returns the monthly allowance for a region code,
// case-insensitive, falling back to the default for unknown or empty codes.
// Total: never fails.
func (c *Calculator) MonthlyQuota(region string) float64 {
	if region != "" {
		if quota, ok := c.quotas[strings.ToUpper(region)]; ok {
			return quota
		}
	}
	return c.defaultQuota
}

// Score computes the weighted performance score.
//
//	score = attendance*0.15 + economy*0.40 + production*0.45
//
// monthsOverride replaces the aggregate's ActiveMonths when > 0; the timeline
// uses it so the denominator reflects months active within one year rather
// than the whole mandate. Months are clamped to >=1 in all cases.
func (c *Calculator) Score(raw RawAggregate, monthsOverride int) ScoreResult {
	months := raw.ActiveMonths
	if monthsOverride > 0 {
		months = monthsOverride
	}
	if months < 1 {
		months = 1
	}

	// Attendance comes pre-aggregated as a 0-100 percentage; passthrough.
	attendance := raw.AttendanceRatio

	productionTarget := float64(months) * c.targetPerMo
	production := 0.0
	if productionTarget > 0 {
		production = math.Min(raw.ProductionPoints/productionTarget*100, 100.0)
	}

	monthlyQuota := c.MonthlyQuota(raw.Region)
	totalQuota := monthlyQuota * float64(months)
	economy := 0.0
	if totalQuota > 0 {
		// Overspending floors at 0; it never goes negative.
		economy = math.Max(0, (totalQuota-raw.TotalSpending)/totalQuota*100)
	}

	score := attendance*weightAttendance + economy*weightEconomy + production*weightProduction

	usedPct := 0.0
	if totalQuota > 0 {
		usedPct = round2(raw.TotalSpending / totalQuota * 100)
	}

	return ScoreResult{
		PoliticianID: raw.PoliticianID,
		Name:         raw.Name,
		Region:       raw.Region,
		Party:        raw.Party,
		PhotoURL:     raw.PhotoURL,
		Score:        round2(score),
		Subscores: Subscores{
			Attendance: round2(attendance),
			Economy:    round2(economy),
			Production: round2(production),
		},
		Meta: QuotaMeta{
			MonthlyQuota:    monthlyQuota,
			TotalQuota:      totalQuota,
			TotalSpending:   raw.TotalSpending,
			Months:          months,
			SpendingUsedPct: usedPct,
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
