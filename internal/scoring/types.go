package scoring

// RawAggregate is the per-politician input to the score calculation, built
// fresh from the store for every scoring request or ranking pass. It is never
// persisted.
type RawAggregate struct {
	PoliticianID int64
	Name         string
	Region       string
	Party        string
	PhotoURL     string

	// AttendanceRatio is a pre-aggregated percentage in [0,100].
	AttendanceRatio float64

	// ProductionPoints is the weighted sum of legislative authorship.
	ProductionPoints float64

	TotalSpending float64

	// ActiveMonths counts distinct months with at least one expense record.
	// Clamped to >=1 before any division.
	ActiveMonths int
}

// Subscores are the three weighted components of the final score, each in
// [0,100].
type Subscores struct {
	Attendance float64 `json:"attendance"`
	Economy    float64 `json:"economy"`
	Production float64 `json:"production"`
}

// QuotaMeta carries derived quota figures for display. It never crosses the
// API boundary as-is; callers lift the fields they need into response types.
type QuotaMeta struct {
	MonthlyQuota    float64
	TotalQuota      float64
	TotalSpending   float64
	Months          int
	SpendingUsedPct float64
}

// ScoreResult is the scored view of one politician.
type ScoreResult struct {
	PoliticianID int64     `json:"politician_id"`
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	Party        string    `json:"party"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Score        float64   `json:"score"`
	Subscores    Subscores `json:"subscores"`

	// Meta is internal display data, stripped from serialized output.
	Meta QuotaMeta `json:"-"`
}
