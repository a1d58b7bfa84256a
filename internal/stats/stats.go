// Package stats computes KPI snapshots and chart-ready aggregates over
// filtered student tables. Every function works on the table it is given;
// nothing here reaches back to the unfiltered dataset or caches results.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Describe computes descriptive statistics over values. An empty input is
// the empty-result condition, never a NaN that leaks into a displayed KPI.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, errors.NewEmptyResultError("no values to summarize")
	}

	s := Summary{Count: len(values), Min: values[0], Max: values[0]}

	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(values))

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		// Sample standard deviation, matching spreadsheet STDEV.
		s.Std = math.Sqrt(sq / float64(len(values)-1))
	}

	s.Median = Quantile(values, 0.5)

	return s, nil
}

// Quantile returns the q-th quantile (0..1) of values using linear
// interpolation between closest ranks. The input is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FiveNumber is the box-plot summary of one group.
type FiveNumber struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// FiveNumberSummary computes the box-plot statistics of values.
func FiveNumberSummary(values []float64) (FiveNumber, error) {
	if len(values) == 0 {
		return FiveNumber{}, errors.NewEmptyResultError("no values to summarize")
	}
	return FiveNumber{
		Min:    Quantile(values, 0),
		Q1:     Quantile(values, 0.25),
		Median: Quantile(values, 0.5),
		Q3:     Quantile(values, 0.75),
		Max:    Quantile(values, 1),
	}, nil
}

// Histogram divides [min, max] into bins equal-width buckets and counts
// values per bucket. Values on a boundary fall into the higher bucket,
// except the maximum which stays in the last one.
type Histogram struct {
	Labels []string
	Counts []int
}

// NewHistogram builds a fixed-range histogram.
func NewHistogram(values []float64, min, max float64, bins int) Histogram {
	h := Histogram{
		Labels: make([]string, bins),
		Counts: make([]int, bins),
	}
	width := (max - min) / float64(bins)
	for i := 0; i < bins; i++ {
		lo := min + float64(i)*width
		hi := lo + width
		h.Labels[i] = fmt.Sprintf("%d-%d", int(lo), int(hi))
	}
	for _, v := range values {
		if v < min || v > max {
			continue
		}
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// ExamSnapshot computes the KPI snapshot of an exam table. The primary
// numeric field is the score; pass counts follow the passing-grade rule.
func ExamSnapshot(table *domain.ExamTable) (domain.KPISnapshot, error) {
	if table == nil || len(table.Rows) == 0 {
		return domain.KPISnapshot{}, errors.NewEmptyResultError("cannot compute KPIs over zero records")
	}

	summary, err := Describe(table.Scores())
	if err != nil {
		return domain.KPISnapshot{}, err
	}

	snapshot := domain.KPISnapshot{
		Count:             summary.Count,
		Mean:              summary.Mean,
		Median:            summary.Median,
		Std:               summary.Std,
		Min:               summary.Min,
		Max:               summary.Max,
		GradeDistribution: GradeDistribution(table),
	}

	for _, r := range table.Rows {
		if r.Passed() {
			snapshot.PassedCount++
		}
	}
	snapshot.FailedCount = snapshot.Count - snapshot.PassedCount
	snapshot.PassRate = 100 * float64(snapshot.PassedCount) / float64(snapshot.Count)
	snapshot.Groups = ExamTermStats(table)

	return snapshot, nil
}

// GradeDistribution counts records per grade, including grades with zero
// records so charts always show all five buckets.
func GradeDistribution(table *domain.ExamTable) map[int]int {
	dist := make(map[int]int, domain.MaxGrade)
	for g := domain.MinGrade; g <= domain.MaxGrade; g++ {
		dist[g] = 0
	}
	for _, r := range table.Rows {
		dist[r.Grade]++
	}
	return dist
}

// ExamTermStats aggregates mean score and pass rate per exam term,
// sorted by term for stable chart output.
func ExamTermStats(table *domain.ExamTable) []domain.GroupStat {
	byTerm := make(map[string][]domain.ExamRecord)
	for _, r := range table.Rows {
		byTerm[r.Term] = append(byTerm[r.Term], r)
	}

	stats := make([]domain.GroupStat, 0, len(byTerm))
	for term, rows := range byTerm {
		var sum float64
		var passed int
		for _, r := range rows {
			sum += float64(r.Score)
			if r.Passed() {
				passed++
			}
		}
		stats = append(stats, domain.GroupStat{
			Key:      term,
			Count:    len(rows),
			Mean:     sum / float64(len(rows)),
			PassRate: 100 * float64(passed) / float64(len(rows)),
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}

// ProfileSnapshot computes the KPI snapshot of a profile table. The
// primary numeric field is avg_grade; the pass-rate slot counts
// scholarship holders.
func ProfileSnapshot(table *domain.ProfileTable) (domain.KPISnapshot, error) {
	if table == nil || len(table.Rows) == 0 {
		return domain.KPISnapshot{}, errors.NewEmptyResultError("cannot compute KPIs over zero records")
	}

	summary, err := Describe(table.AvgGrades())
	if err != nil {
		return domain.KPISnapshot{}, err
	}

	snapshot := domain.KPISnapshot{
		Count:  summary.Count,
		Mean:   summary.Mean,
		Median: summary.Median,
		Std:    summary.Std,
		Min:    summary.Min,
		Max:    summary.Max,
	}

	for _, r := range table.Rows {
		if r.Scholarship {
			snapshot.PassedCount++
		}
	}
	snapshot.FailedCount = snapshot.Count - snapshot.PassedCount
	snapshot.PassRate = 100 * float64(snapshot.PassedCount) / float64(snapshot.Count)
	snapshot.Groups = ProfileSpecializationStats(table)

	return snapshot, nil
}

// ProfileSpecializationStats aggregates mean grade and scholarship rate
// per specialization, sorted by name.
func ProfileSpecializationStats(table *domain.ProfileTable) []domain.GroupStat {
	bySpec := make(map[string][]domain.ProfileRecord)
	for _, r := range table.Rows {
		bySpec[r.Specialization] = append(bySpec[r.Specialization], r)
	}

	stats := make([]domain.GroupStat, 0, len(bySpec))
	for spec, rows := range bySpec {
		var sum float64
		var scholars int
		for _, r := range rows {
			sum += r.AvgGrade
			if r.Scholarship {
				scholars++
			}
		}
		stats = append(stats, domain.GroupStat{
			Key:      spec,
			Count:    len(rows),
			Mean:     sum / float64(len(rows)),
			PassRate: 100 * float64(scholars) / float64(len(rows)),
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}
