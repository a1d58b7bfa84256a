// The report command is the one-shot pipeline: load (or generate) a
// dataset, apply a filter, and write KPIs, a CSV extract, an Excel
// workbook and the chart dashboard to the reports directory. It exits
// non-zero when the input fails validation so shell pipelines can stop
// early.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gradeviz/internal/charts"
	"gradeviz/internal/config"
	"gradeviz/internal/dataset"
	"gradeviz/internal/exporter"
	"gradeviz/internal/filter"
	"gradeviz/internal/infrastructure"
	"gradeviz/internal/stats"
	"gradeviz/internal/validation"
	"gradeviz/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input CSV path (defaults to the data directory file for the schema)")
	schema := flag.String("schema", "exam", "dataset schema: exam or profile")
	theme := flag.String("theme", "", "chart theme: light or dark (defaults to configured theme)")
	format := flag.String("format", "html", "dashboard output format: html, png or pdf")
	outDir := flag.String("out", "", "output directory (defaults to the reports directory)")

	term := flag.String("term", "", "exam filter: keep only this exam term")
	grade := flag.Int("grade", 0, "exam filter: keep only this grade (1-5)")
	minScore := flag.Int("min-score", -1, "exam filter: minimum score")
	maxScore := flag.Int("max-score", -1, "exam filter: maximum score")
	passedOnly := flag.Bool("passed", false, "exam filter: keep only passing records")
	search := flag.String("search", "", "filter: substring match on names")

	specialization := flag.String("specialization", "", "profile filter: keep only this specialization")
	city := flag.String("city", "", "profile filter: keep only this city")
	gender := flag.String("gender", "", "profile filter: keep only this gender (M or F)")
	year := flag.Int("year", 0, "profile filter: keep only this study year (1-2)")
	minAvgGrade := flag.Float64("min-avg-grade", 0, "profile filter: minimum average grade")
	maxAvgGrade := flag.Float64("max-avg-grade", 0, "profile filter: maximum average grade")
	scholarshipOnly := flag.Bool("scholarship", false, "profile filter: keep only scholarship holders")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	if *theme == "" {
		*theme = cfg.Theme.Name
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ReportsDir
	}

	ctx := context.Background()
	files := validation.NewFileValidator(logger)
	loader := dataset.NewLoader(logger)
	exp := exporter.New(logger, cfg.Export.RenderTimeout)
	builder := charts.NewBuilder(*theme)

	if err := files.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory rejected", "error", err, "dir", *outDir)
		os.Exit(1)
	}

	switch *schema {
	case "exam":
		path := *in
		if path == "" {
			path = cfg.Paths.DataPath(config.DefaultCSVName)
		}
		if err := files.ValidateCSVInput(path, cfg.Export.MaxCSVBytes); err != nil {
			logger.Error("Input rejected", "error", err, "path", path)
			os.Exit(1)
		}

		table, err := loader.LoadExam(ctx, path)
		if err != nil {
			logger.Error("Load failed", "error", err, "path", path)
			os.Exit(1)
		}

		spec := examFilterSpec(*term, *grade, *minScore, *maxScore, *passedOnly, *search)
		if !spec.IsZero() {
			table, err = filter.ApplyExam(table, spec)
			if err != nil {
				logger.Error("Filter failed", "error", err)
				os.Exit(1)
			}
		}

		snapshot, err := stats.ExamSnapshot(table)
		if err != nil {
			logger.Error("KPI computation failed", "error", err)
			os.Exit(1)
		}
		printExamSnapshot(snapshot)

		if err := writeExamArtifacts(ctx, exp, builder, table, snapshot, *outDir, *format, logger); err != nil {
			logger.Error("Report writing failed", "error", err)
			os.Exit(1)
		}

	case "profile":
		path := *in
		if path == "" {
			path = cfg.Paths.DataPath(config.DefaultProfileCSVName)
		}
		if err := files.ValidateCSVInput(path, cfg.Export.MaxCSVBytes); err != nil {
			logger.Error("Input rejected", "error", err, "path", path)
			os.Exit(1)
		}

		table, err := loader.LoadProfile(ctx, path)
		if err != nil {
			logger.Error("Load failed", "error", err, "path", path)
			os.Exit(1)
		}

		spec := profileFilterSpec(*specialization, *city, *gender, *year, *minAvgGrade, *maxAvgGrade, *scholarshipOnly, *search)
		if !spec.IsZero() {
			table, err = filter.ApplyProfile(table, spec)
			if err != nil {
				logger.Error("Filter failed", "error", err)
				os.Exit(1)
			}
		}

		snapshot, err := stats.ProfileSnapshot(table)
		if err != nil {
			logger.Error("KPI computation failed", "error", err)
			os.Exit(1)
		}
		printProfileSnapshot(snapshot)

		if err := writeProfileArtifacts(ctx, exp, builder, table, snapshot, *outDir, *format, logger); err != nil {
			logger.Error("Report writing failed", "error", err)
			os.Exit(1)
		}

	default:
		logger.Error("Unknown schema", "schema", *schema)
		os.Exit(1)
	}
}

func examFilterSpec(term string, grade, minScore, maxScore int, passedOnly bool, search string) domain.ExamFilter {
	spec := domain.ExamFilter{PassedOnly: passedOnly, Search: search}
	if term != "" {
		spec.Term = &term
	}
	if grade != 0 {
		spec.Grade = &grade
	}
	if minScore >= 0 {
		spec.MinScore = &minScore
	}
	if maxScore >= 0 {
		spec.MaxScore = &maxScore
	}
	return spec
}

func profileFilterSpec(specialization, city, gender string, year int, minAvgGrade, maxAvgGrade float64, scholarshipOnly bool, search string) domain.ProfileFilter {
	spec := domain.ProfileFilter{ScholarshipOnly: scholarshipOnly, Search: search}
	if specialization != "" {
		spec.Specialization = &specialization
	}
	if city != "" {
		spec.City = &city
	}
	if gender != "" {
		spec.Gender = &gender
	}
	if year != 0 {
		spec.Year = &year
	}
	if minAvgGrade != 0 {
		spec.MinAvgGrade = &minAvgGrade
	}
	if maxAvgGrade != 0 {
		spec.MaxAvgGrade = &maxAvgGrade
	}
	return spec
}

func writeExamArtifacts(ctx context.Context, exp *exporter.Exporter, builder *charts.Builder, table *domain.ExamTable, snapshot domain.KPISnapshot, outDir, format string, logger *slog.Logger) error {
	csvFile, err := os.Create(filepath.Join(outDir, "izvjestaj_ispit.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := exp.StreamExamCSV(ctx, csvFile, table); err != nil {
		return err
	}

	workbook, err := os.Create(filepath.Join(outDir, "izvjestaj_ispit.xlsx"))
	if err != nil {
		return err
	}
	defer workbook.Close()
	if err := exp.WriteExamWorkbook(ctx, workbook, table, snapshot); err != nil {
		return err
	}

	path, err := exp.ExamDashboard(ctx, builder, table, outDir, exporter.RenderFormat(format))
	if err != nil {
		return err
	}

	// PNG reports also get one image per chart next to the dashboard.
	if exporter.RenderFormat(format) == exporter.FormatPNG {
		if _, err := exp.ChartImages(ctx, builder, table, outDir); err != nil {
			return err
		}
	}

	logger.Info("Report written", "dashboard", path, "records", table.Len())
	return nil
}

func writeProfileArtifacts(ctx context.Context, exp *exporter.Exporter, builder *charts.Builder, table *domain.ProfileTable, snapshot domain.KPISnapshot, outDir, format string, logger *slog.Logger) error {
	csvFile, err := os.Create(filepath.Join(outDir, "izvjestaj_profil.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := exp.StreamProfileCSV(ctx, csvFile, table); err != nil {
		return err
	}

	workbook, err := os.Create(filepath.Join(outDir, "izvjestaj_profil.xlsx"))
	if err != nil {
		return err
	}
	defer workbook.Close()
	if err := exp.WriteProfileWorkbook(ctx, workbook, table, snapshot); err != nil {
		return err
	}

	path, err := exp.ProfileDashboard(ctx, builder, table, outDir, exporter.RenderFormat(format))
	if err != nil {
		return err
	}
	logger.Info("Report written", "dashboard", path, "records", table.Len())
	return nil
}

func printExamSnapshot(s domain.KPISnapshot) {
	fmt.Printf("records:    %d\n", s.Count)
	fmt.Printf("mean:       %.2f\n", s.Mean)
	fmt.Printf("median:     %.2f\n", s.Median)
	fmt.Printf("std:        %.2f\n", s.Std)
	fmt.Printf("min/max:    %.0f/%.0f\n", s.Min, s.Max)
	fmt.Printf("pass rate:  %.1f%% (%d/%d)\n", s.PassRate, s.PassedCount, s.Count)
}

func printProfileSnapshot(s domain.KPISnapshot) {
	fmt.Printf("records:          %d\n", s.Count)
	fmt.Printf("mean grade:       %.2f\n", s.Mean)
	fmt.Printf("median grade:     %.2f\n", s.Median)
	fmt.Printf("std:              %.2f\n", s.Std)
	fmt.Printf("scholarship rate: %.1f%% (%d/%d)\n", s.PassRate, s.PassedCount, s.Count)
}
