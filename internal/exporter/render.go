package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"gradeviz/internal/charts"
	"gradeviz/internal/errors"
	"gradeviz/pkg/contracts/domain"
)

// RenderFormat selects the capture output for a chart page.
type RenderFormat string

const (
	FormatHTML RenderFormat = "html"
	FormatPNG  RenderFormat = "png"
	FormatPDF  RenderFormat = "pdf"
)

// ChartFiles writes each exam chart as its own HTML file under dir and
// returns the written paths keyed by chart kind. HTML renders run
// concurrently; they are independent files.
func (e *Exporter) ChartFiles(ctx context.Context, builder *charts.Builder, table *domain.ExamTable, dir string) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	paths := make(map[string]string, len(charts.ExamChartKinds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, kind := range charts.ExamChartKinds {
		kind := kind
		path := filepath.Join(dir, kind+".html")
		paths[kind] = path
		g.Go(func() error {
			c, err := builder.ExamChart(kind, table)
			if err != nil {
				return err
			}
			return e.renderHTML(gctx, c.Render, path)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ChartImages writes each exam chart as its own PNG under dir and
// returns the written paths keyed by chart kind. Captures run one at a
// time; each holds a headless Chrome instance.
func (e *Exporter) ChartImages(ctx context.Context, builder *charts.Builder, table *domain.ExamTable, dir string) (map[string]string, error) {
	htmlPaths, err := e.ChartFiles(ctx, builder, table, dir)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string, len(htmlPaths))
	for kind, htmlPath := range htmlPaths {
		pngPath := filepath.Join(dir, kind+".png")
		if err := e.capture(ctx, htmlPath, pngPath, FormatPNG); err != nil {
			return nil, err
		}
		paths[kind] = pngPath
	}
	return paths, nil
}

// ExamDashboard writes the combined exam chart page to dir in the
// requested format and returns the written path. PNG and PDF captures
// load the HTML page in headless Chrome.
func (e *Exporter) ExamDashboard(ctx context.Context, builder *charts.Builder, table *domain.ExamTable, dir string, format RenderFormat) (string, error) {
	pg, err := builder.ExamPage(table)
	if err != nil {
		return "", err
	}
	return e.dashboard(ctx, pg.Render, dir, "exam_dashboard", format)
}

// ProfileDashboard is ExamDashboard for the profile schema.
func (e *Exporter) ProfileDashboard(ctx context.Context, builder *charts.Builder, table *domain.ProfileTable, dir string, format RenderFormat) (string, error) {
	pg, err := builder.ProfilePage(table)
	if err != nil {
		return "", err
	}
	return e.dashboard(ctx, pg.Render, dir, "profile_dashboard", format)
}

func (e *Exporter) dashboard(ctx context.Context, render renderFunc, dir, stem string, format RenderFormat) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIOError(fmt.Sprintf("cannot create directory %s", dir), err)
	}

	htmlPath := filepath.Join(dir, stem+".html")
	if err := e.renderHTML(ctx, render, htmlPath); err != nil {
		return "", err
	}
	if format == FormatHTML || format == "" {
		return htmlPath, nil
	}

	outPath := filepath.Join(dir, stem+"."+string(format))
	if err := e.capture(ctx, htmlPath, outPath, format); err != nil {
		return "", err
	}
	return outPath, nil
}

// chartSettleDelay covers the echarts entry animation before capture.
const chartSettleDelay = 1500 * time.Millisecond

type renderFunc func(w io.Writer) error

func (e *Exporter) renderHTML(ctx context.Context, render renderFunc, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("cannot create %s", path), err)
	}
	defer file.Close()

	if err := render(file); err != nil {
		return errors.NewIOError(fmt.Sprintf("cannot render chart page %s", path), err)
	}

	e.logger.InfoContext(ctx, "chart page written", slog.String("path", path))
	return nil
}

// capture loads the HTML page in headless Chrome and saves a PNG
// screenshot or a printed PDF.
func (e *Exporter) capture(ctx context.Context, htmlPath, outPath string, format RenderFormat) error {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return errors.NewIOError("cannot resolve chart page path", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	captureCtx, cancelTimeout := context.WithTimeout(browserCtx, e.renderTimeout)
	defer cancelTimeout()

	var buf []byte
	actions := []chromedp.Action{
		chromedp.Navigate("file://" + absPath),
		// Give echarts time to finish its entry animations.
		chromedp.WaitReady("canvas", chromedp.ByQuery),
		chromedp.Sleep(chartSettleDelay),
	}
	switch format {
	case FormatPNG:
		actions = append(actions, chromedp.FullScreenshot(&buf, 95))
	case FormatPDF:
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			buf, _, printErr = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return printErr
		}))
	default:
		return errors.NewAppValidationError(fmt.Sprintf("unsupported render format %q", format))
	}

	if err := chromedp.Run(captureCtx, actions...); err != nil {
		return errors.NewIOError(fmt.Sprintf("browser capture of %s failed", htmlPath), err)
	}

	if err := os.WriteFile(outPath, buf, 0644); err != nil {
		return errors.NewIOError(fmt.Sprintf("cannot write %s", outPath), err)
	}

	e.logger.InfoContext(ctx, "chart capture written",
		slog.String("path", outPath),
		slog.String("format", string(format)))
	return nil
}
