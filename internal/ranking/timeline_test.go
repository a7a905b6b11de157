package ranking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/parlametro/parlametro/internal/errors"
	"github.com/parlametro/parlametro/internal/repository"
	"github.com/parlametro/parlametro/internal/scoring"
)

func TestTimelineForOne(t *testing.T) {
	pol := repository.Politician{ID: 7, Name: "Deputado Teste", Region: "SP", Party: "XYZ"}
	reader := &fakeReader{
		politicians: map[int64]repository.Politician{7: pol},
		timeline: []repository.TimelineRow{
			{
				Year: 2023,
				Raw: scoring.RawAggregate{
					PoliticianID:    7,
					Region:          "SP",
					AttendanceRatio: 80,
					TotalSpending:   60000,
					ActiveMonths:    6,
				},
				VoteCount:    120,
				ExpenseCount: 45,
			},
			{
				// No expense months recorded; the denominator clamps to 1.
				Year:      2024,
				Raw:       scoring.RawAggregate{PoliticianID: 7, Region: "SP"},
				VoteCount: 10,
			},
		},
	}
	svc := newTestService(reader)

	timeline, err := svc.TimelineForOne(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), timeline.PoliticianID)
	assert.Equal(t, "Deputado Teste", timeline.Name)
	require.Len(t, timeline.Years, 2)

	first := timeline.Years[0]
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, 120, first.Stats.Votes)
	assert.Equal(t, 45, first.Stats.ExpenseRecords)
	assert.Equal(t, 60000.0, first.Stats.TotalSpending)
	assert.Equal(t, 10000.0, first.Stats.MonthlyAverage)
	assert.Equal(t, 6, first.Quota.ActiveMonths)
	assert.Equal(t, 42837.33, first.Quota.MonthlyQuota)
	assert.InDelta(t, 42837.33*6, first.Quota.TotalQuota, 0.01)
	assert.Greater(t, first.Score, 0.0)

	second := timeline.Years[1]
	assert.Equal(t, 2024, second.Year)
	assert.Equal(t, 1, second.Quota.ActiveMonths)
	assert.Equal(t, 0.0, second.Stats.MonthlyAverage)
}

func TestTimelineForOneMonthsCappedAtTwelve(t *testing.T) {
	pol := repository.Politician{ID: 7, Region: "SP"}
	reader := &fakeReader{
		politicians: map[int64]repository.Politician{7: pol},
		timeline: []repository.TimelineRow{
			{
				Year: 2023,
				Raw:  scoring.RawAggregate{PoliticianID: 7, Region: "SP", ActiveMonths: 30},
			},
		},
	}
	svc := newTestService(reader)

	timeline, err := svc.TimelineForOne(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, timeline.Years, 1)
	assert.Equal(t, 12, timeline.Years[0].Quota.ActiveMonths)
}

func TestTimelineForOneEmpty(t *testing.T) {
	pol := repository.Politician{ID: 7, Region: "SP"}
	reader := &fakeReader{politicians: map[int64]repository.Politician{7: pol}}
	svc := newTestService(reader)

	timeline, err := svc.TimelineForOne(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, timeline.Years)
	assert.Equal(t, int64(7), timeline.PoliticianID)
}

func TestTimelineForOneNotFound(t *testing.T) {
	svc := newTestService(&fakeReader{})

	_, err := svc.TimelineForOne(context.Background(), 404)
	assert.True(t, apperrors.IsNotFound(err))
}
