package scoring

import (
	"testing"

	"github.com/parlametro/parlametro/internal/config"
	"github.com/stretchr/testify/assert"
)

func newTestCalculator() *Calculator {
	return NewCalculator(config.DefaultPolicy())
}

func TestMonthlyQuota(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name     string
		region   string
		expected float64
	}{
		{name: "known region", region: "SP", expected: 42837.33},
		{name: "lowercase region", region: "sp", expected: 42837.33},
		{name: "unknown region falls back to default", region: "XX", expected: 40000.0},
		{name: "empty region falls back to default", region: "", expected: 40000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.MonthlyQuota(tt.region))
		})
	}
}

func TestScoreWeightedFormula(t *testing.T) {
	calc := newTestCalculator()

	raw := RawAggregate{
		PoliticianID:     204521,
		Name:             "Deputada Exemplo",
		Region:           "SP",
		Party:            "XYZ",
		AttendanceRatio:  85.5,
		ProductionPoints: 18.0,
		TotalSpending:    300000.0,
		ActiveMonths:     12,
	}

	result := calc.Score(raw, 0)

	// Quota: 42837.33 * 12 = 514047.96
	// Economy: (514047.96 - 300000) / 514047.96 * 100 = 41.6397
	// Production: 18 / (12 * 2.0) * 100 = 75
	// Score: 85.5*0.15 + 41.6397*0.40 + 75*0.45 = 63.23
	assert.Equal(t, 85.5, result.Subscores.Attendance)
	assert.InDelta(t, 41.64, result.Subscores.Economy, 0.01)
	assert.Equal(t, 75.0, result.Subscores.Production)
	assert.InDelta(t, 63.23, result.Score, 0.01)

	assert.Equal(t, 42837.33, result.Meta.MonthlyQuota)
	assert.InDelta(t, 514047.96, result.Meta.TotalQuota, 0.01)
	assert.Equal(t, 12, result.Meta.Months)
	assert.InDelta(t, 58.36, result.Meta.SpendingUsedPct, 0.01)
}

func TestScoreEdgeCases(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name               string
		raw                RawAggregate
		monthsOverride     int
		expectedScore      float64
		expectedEconomy    float64
		expectedProduction float64
	}{
		{
			name: "zero activity scores economy only",
			raw:  RawAggregate{Region: "SP", ActiveMonths: 0},
			// Months clamp to 1, no spending means full economy subscore.
			expectedScore:      40.0,
			expectedEconomy:    100.0,
			expectedProduction: 0.0,
		},
		{
			name: "overspending floors economy at zero",
			raw: RawAggregate{
				Region:        "SP",
				TotalSpending: 1000000.0,
				ActiveMonths:  12,
			},
			expectedScore:      0.0,
			expectedEconomy:    0.0,
			expectedProduction: 0.0,
		},
		{
			name: "production capped at 100",
			raw: RawAggregate{
				Region:           "SP",
				ProductionPoints: 500.0,
				TotalSpending:    42837.33,
				ActiveMonths:     1,
			},
			expectedScore:      45.0,
			expectedEconomy:    0.0,
			expectedProduction: 100.0,
		},
		{
			name: "months override replaces aggregate months",
			raw: RawAggregate{
				Region:           "SP",
				ProductionPoints: 12.0,
				ActiveMonths:     24,
			},
			monthsOverride: 6,
			// Target becomes 6*2=12, production maxes out.
			expectedScore:      85.0,
			expectedEconomy:    100.0,
			expectedProduction: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.Score(tt.raw, tt.monthsOverride)
			assert.InDelta(t, tt.expectedScore, result.Score, 0.01)
			assert.InDelta(t, tt.expectedEconomy, result.Subscores.Economy, 0.01)
			assert.InDelta(t, tt.expectedProduction, result.Subscores.Production, 0.01)
		})
	}
}

func TestScoreBounds(t *testing.T) {
	calc := newTestCalculator()

	extremes := []RawAggregate{
		{Region: "SP", AttendanceRatio: 100, ProductionPoints: 10000, TotalSpending: 0, ActiveMonths: 1},
		{Region: "SP", AttendanceRatio: 0, ProductionPoints: 0, TotalSpending: 1e9, ActiveMonths: 48},
		{Region: "", AttendanceRatio: 50, ProductionPoints: 1, TotalSpending: 20000, ActiveMonths: 12},
	}

	for _, raw := range extremes {
		result := calc.Score(raw, 0)
		assert.GreaterOrEqual(t, result.Score, 0.0)
		assert.LessOrEqual(t, result.Score, 100.0)
		assert.LessOrEqual(t, result.Subscores.Production, 100.0)
		assert.GreaterOrEqual(t, result.Subscores.Economy, 0.0)
	}
}

func TestScoreIdempotent(t *testing.T) {
	calc := newTestCalculator()

	raw := RawAggregate{
		Region:           "RJ",
		AttendanceRatio:  72.3,
		ProductionPoints: 9.5,
		TotalSpending:    123456.78,
		ActiveMonths:     18,
	}

	first := calc.Score(raw, 0)
	second := calc.Score(raw, 0)
	assert.Equal(t, first, second)
}
