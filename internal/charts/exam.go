package charts

import (
	"fmt"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"

	"gradeviz/internal/errors"
	"gradeviz/internal/stats"
	"gradeviz/pkg/contracts/domain"
)

// Exam chart kinds. Values double as URL slugs and export file stems.
const (
	ExamGradeBar  = "students_by_grade"
	ExamGradePie  = "grade_share"
	ExamScoreHist = "score_histogram"
	ExamTermLine  = "avg_score_by_term"
	ExamTermPass  = "pass_rate_by_term"
	ExamTermBox   = "score_box_by_term"
)

// ExamChartKinds lists every exam chart in dashboard order.
var ExamChartKinds = []string{
	ExamGradeBar, ExamGradePie, ExamScoreHist,
	ExamTermLine, ExamTermPass, ExamTermBox,
}

// ExamChart builds the named chart from an exam table.
func (b *Builder) ExamChart(kind string, table *domain.ExamTable) (Chart, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, errors.NewEmptyResultError("cannot chart zero records")
	}

	switch kind {
	case ExamGradeBar:
		return b.examGradeBar(table), nil
	case ExamGradePie:
		return b.examGradePie(table), nil
	case ExamScoreHist:
		return b.examScoreHistogram(table), nil
	case ExamTermLine:
		return b.examTermLine(table), nil
	case ExamTermPass:
		return b.examTermPassBar(table), nil
	case ExamTermBox:
		return b.examTermBox(table), nil
	default:
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown chart kind %q", kind))
	}
}

// ExamPage renders all exam charts on one page.
func (b *Builder) ExamPage(table *domain.ExamTable) (*components.Page, error) {
	items := make([]Chart, 0, len(ExamChartKinds))
	for _, kind := range ExamChartKinds {
		c, err := b.ExamChart(kind, table)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return b.Page("Pregled rezultata ispita", items...), nil
}

func gradeAxis(dist map[int]int) (labels []string, values []float64) {
	for g := domain.MinGrade; g <= domain.MaxGrade; g++ {
		labels = append(labels, strconv.Itoa(g))
		values = append(values, float64(dist[g]))
	}
	return labels, values
}

func (b *Builder) examGradeBar(table *domain.ExamTable) Chart {
	labels, values := gradeAxis(stats.GradeDistribution(table))
	return b.Bar("Broj studenata po ocjeni", "", "broj studenata", labels, values)
}

func (b *Builder) examGradePie(table *domain.ExamTable) Chart {
	dist := stats.GradeDistribution(table)
	var labels []string
	var values []float64
	for g := domain.MinGrade; g <= domain.MaxGrade; g++ {
		if dist[g] == 0 {
			continue
		}
		labels = append(labels, "ocjena "+strconv.Itoa(g))
		values = append(values, float64(dist[g]))
	}
	return b.Pie("Udio ocjena", "ocjene", labels, values)
}

func (b *Builder) examScoreHistogram(table *domain.ExamTable) Chart {
	scores := table.Scores()
	hist := stats.NewHistogram(scores, domain.MinScore, domain.MaxScore, 10)

	subtitle := "bodovi po razredima od 10"
	if summary, err := stats.Describe(scores); err == nil {
		subtitle = fmt.Sprintf("prosjek %.1f, prag prolaza %d", summary.Mean, domain.PassingScore)
	}
	return b.HistogramBar("Raspodjela bodova", subtitle, hist)
}

func (b *Builder) examTermLine(table *domain.ExamTable) Chart {
	groups := stats.ExamTermStats(table)
	labels := make([]string, len(groups))
	values := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		values[i] = round2(g.Mean)
	}
	return b.Line("Prosjek bodova po terminu", "prosjek bodova", labels, values)
}

func (b *Builder) examTermPassBar(table *domain.ExamTable) Chart {
	groups := stats.ExamTermStats(table)
	labels := make([]string, len(groups))
	values := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		values[i] = round2(g.PassRate)
	}
	return b.Bar("Prolaznost po terminu", "postotak položenih", "prolaznost %", labels, values)
}

func (b *Builder) examTermBox(table *domain.ExamTable) Chart {
	byTerm := make(map[string][]float64)
	for _, r := range table.Rows {
		byTerm[r.Term] = append(byTerm[r.Term], float64(r.Score))
	}

	labels := table.Terms()
	fives := make([]stats.FiveNumber, len(labels))
	for i, term := range labels {
		// Groups come from the table itself, so each has at least one value.
		fives[i], _ = stats.FiveNumberSummary(byTerm[term])
	}
	return b.BoxPlot("Raspršenje bodova po terminu", "bodovi", labels, fives)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
