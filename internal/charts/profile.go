package charts

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/components"

	"gradeviz/internal/errors"
	"gradeviz/internal/stats"
	"gradeviz/pkg/contracts/domain"
)

// Profile chart kinds.
const (
	ProfileAttendanceScatter = "attendance_vs_avg_grade"
	ProfileSpecBar           = "students_by_specialization"
	ProfileCityPie           = "city_share"
	ProfileGradeHist         = "avg_grade_histogram"
	ProfileYearBox           = "ects_box_by_year"
)

// ProfileChartKinds lists every profile chart in report order.
var ProfileChartKinds = []string{
	ProfileAttendanceScatter, ProfileSpecBar, ProfileCityPie,
	ProfileGradeHist, ProfileYearBox,
}

// ProfileChart builds the named chart from a profile table.
func (b *Builder) ProfileChart(kind string, table *domain.ProfileTable) (Chart, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, errors.NewEmptyResultError("cannot chart zero records")
	}

	switch kind {
	case ProfileAttendanceScatter:
		return b.profileAttendanceScatter(table), nil
	case ProfileSpecBar:
		return b.profileSpecializationBar(table), nil
	case ProfileCityPie:
		return b.profileCityPie(table), nil
	case ProfileGradeHist:
		return b.profileGradeHistogram(table), nil
	case ProfileYearBox:
		return b.profileYearBox(table), nil
	default:
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown chart kind %q", kind))
	}
}

// ProfilePage renders all profile charts on one page.
func (b *Builder) ProfilePage(table *domain.ProfileTable) (*components.Page, error) {
	items := make([]Chart, 0, len(ProfileChartKinds))
	for _, kind := range ProfileChartKinds {
		c, err := b.ProfileChart(kind, table)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return b.Page("Pregled profila studenata", items...), nil
}

func (b *Builder) profileAttendanceScatter(table *domain.ProfileTable) Chart {
	points := make([][2]float64, len(table.Rows))
	for i, r := range table.Rows {
		points[i] = [2]float64{r.AttendanceRate, r.AvgGrade}
	}
	return b.Scatter("Prisutnost i prosjek ocjena", "prisutnost", "prosjek", "studenti", points)
}

func (b *Builder) profileSpecializationBar(table *domain.ProfileTable) Chart {
	groups := stats.ProfileSpecializationStats(table)
	labels := make([]string, len(groups))
	values := make([]float64, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		values[i] = float64(g.Count)
	}
	return b.Bar("Broj studenata po smjeru", "", "broj studenata", labels, values)
}

func (b *Builder) profileCityPie(table *domain.ProfileTable) Chart {
	byCity := make(map[string]int)
	for _, r := range table.Rows {
		byCity[r.City]++
	}

	var labels []string
	var values []float64
	for _, city := range sortedKeys(byCity) {
		labels = append(labels, city)
		values = append(values, float64(byCity[city]))
	}
	return b.Pie("Udio studenata po gradu", "gradovi", labels, values)
}

func (b *Builder) profileGradeHistogram(table *domain.ProfileTable) Chart {
	hist := stats.NewHistogram(table.AvgGrades(), domain.MinAvgGrade, domain.MaxAvgGrade, 6)
	// Integer bucket labels do not work for the 2.0-5.0 range.
	width := (domain.MaxAvgGrade - domain.MinAvgGrade) / 6
	for i := range hist.Labels {
		lo := domain.MinAvgGrade + float64(i)*width
		hist.Labels[i] = fmt.Sprintf("%.1f-%.1f", lo, lo+width)
	}
	return b.HistogramBar("Raspodjela prosjeka ocjena", "", hist)
}

func (b *Builder) profileYearBox(table *domain.ProfileTable) Chart {
	byYear := make(map[int][]float64)
	for _, r := range table.Rows {
		byYear[r.Year] = append(byYear[r.Year], float64(r.ECTSCompleted))
	}

	var labels []string
	var fives []stats.FiveNumber
	for year := domain.MinYear; year <= domain.MaxYear; year++ {
		values, ok := byYear[year]
		if !ok {
			continue
		}
		five, _ := stats.FiveNumberSummary(values)
		labels = append(labels, strconv.Itoa(year)+". godina")
		fives = append(fives, five)
	}
	return b.BoxPlot("ECTS bodovi po godini studija", "ECTS", labels, fives)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
