package domain

// KPISnapshot is the derived, read-only summary of the CURRENT filtered
// view. It is recomputed on every filter or reload event and never
// persisted; consumers must not assume it reflects the unfiltered table.
type KPISnapshot struct {
	Count int `json:"count" csv:"Count"`

	// Statistics over the primary numeric field: bodovi for the exam
	// schema, avg_grade for the profile schema.
	Mean   float64 `json:"mean" csv:"Mean"`
	Median float64 `json:"median" csv:"Median"`
	Std    float64 `json:"std" csv:"Std"`
	Min    float64 `json:"min" csv:"Min"`
	Max    float64 `json:"max" csv:"Max"`

	// PassedCount/PassRate count passing grades for the exam schema and
	// scholarship holders for the profile schema. PassRate is a percentage.
	PassedCount int     `json:"passed_count" csv:"PassedCount"`
	FailedCount int     `json:"failed_count" csv:"FailedCount"`
	PassRate    float64 `json:"pass_rate" csv:"PassRate"`

	// GradeDistribution maps grade (1..5) to the number of records.
	// Exam schema only; empty for profile snapshots.
	GradeDistribution map[int]int `json:"grade_distribution,omitempty"`

	// Groups holds per-category statistics: per exam term for the exam
	// schema, per specialization for the profile schema. Sorted by key.
	Groups []GroupStat `json:"groups,omitempty"`
}

// GroupStat summarizes one category of a group-by aggregation.
type GroupStat struct {
	Key      string  `json:"key"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	PassRate float64 `json:"pass_rate"`
}
