package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"gradeviz/internal/dataset"
	apierrors "gradeviz/internal/errors"
	"gradeviz/internal/exporter"
	"gradeviz/pkg/contracts/domain"
)

// DataHandler handles dataset, KPI, filter and export HTTP requests.
type DataHandler struct {
	session SessionInterface
	logger  *slog.Logger
}

// NewDataHandler creates a data handler bound to one session.
func NewDataHandler(session SessionInterface, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		session: session,
		logger:  logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the /api routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", h.Health)
	r.Get("/data", h.GetData)
	r.Get("/kpis", h.GetKPIs)

	r.Put("/filter", h.SetFilter)
	r.Delete("/filter", h.ResetFilter)
	r.Put("/theme", h.SetTheme)

	r.Post("/generate", h.Generate)
	r.Post("/load", h.Load)

	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportExcel)
	r.Get("/export/{format:png|pdf}", h.ExportRendered)

	return r
}

// Health reports service liveness.
func (h *DataHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetData returns the filtered dataset view with its provenance.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	table, err := h.session.Filtered(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"rows":       table.Rows,
		"row_count":  table.Len(),
		"provenance": table.Provenance,
		"filter":     h.session.Filter(),
		"theme":      h.session.Theme(),
	})
}

// GetKPIs returns the KPI snapshot of the filtered view.
func (h *DataHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.session.Snapshot(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, snapshot)
}

// SetFilter replaces the active filter specification.
func (h *DataHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var spec domain.ExamFilter
	if err := render.DecodeJSON(r.Body, &spec); err != nil {
		h.logger.WarnContext(r.Context(), "malformed filter payload",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	count, err := h.session.SetFilter(r.Context(), spec)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"row_count": count,
		"filter":    spec,
	})
}

// ResetFilter clears the active filter.
func (h *DataHandler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	count, err := h.session.SetFilter(r.Context(), domain.ExamFilter{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"row_count": count})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// SetTheme switches the chart theme.
func (h *DataHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	if err := h.session.SetTheme(req.Theme); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"theme": req.Theme})
}

type generateRequest struct {
	Seed  *int64 `json:"seed,omitempty"`
	Count int    `json:"count"`
	// RegenerateOnRead toggles drawing a fresh dataset on every read.
	// Absent leaves the current policy untouched.
	RegenerateOnRead *bool `json:"regenerate_on_read,omitempty"`
}

// Generate replaces the dataset with a synthetic one.
func (h *DataHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	err := h.session.Generate(r.Context(), dataset.GenerateOptions{Seed: req.Seed, Count: req.Count})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if req.RegenerateOnRead != nil {
		h.session.SetRegenerateOnRead(*req.RegenerateOnRead)
	}

	prov, err := h.session.Provenance()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"provenance": prov})
}

type loadRequest struct {
	Path string `json:"path"`
}

// Load replaces the dataset with the contents of a CSV file on disk.
func (h *DataHandler) Load(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if req.Path == "" {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrValidation("path", "Path is required")))
		return
	}

	if err := h.session.LoadCSV(r.Context(), req.Path); err != nil {
		h.renderError(w, r, err)
		return
	}

	prov, err := h.session.Provenance()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"provenance": prov})
}

// ExportCSV streams the filtered view as a CSV download.
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="studenti_ispit.csv"`)

	if err := h.session.ExportCSV(r.Context(), w); err != nil {
		// Headers may already be gone; log and surface what we can.
		h.logger.ErrorContext(r.Context(), "CSV export failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FromAppError(err))
	}
}

// ExportExcel streams the filtered view as an Excel workbook.
func (h *DataHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="studenti_ispit.xlsx"`)

	if err := h.session.ExportExcel(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Excel export failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FromAppError(err))
	}
}

// ExportRendered captures the chart dashboard as PNG or PDF and serves
// the file.
func (h *DataHandler) ExportRendered(w http.ResponseWriter, r *http.Request) {
	format := exporter.RenderFormat(chi.URLParam(r, "format"))

	path, err := h.session.RenderDashboard(r.Context(), format)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="dashboard.%s"`, format))
	http.ServeFile(w, r, path)
}

func (h *DataHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierrors.FromAppError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	} else {
		h.logger.WarnContext(r.Context(), "request rejected",
			slog.String("path", r.URL.Path),
			slog.Int("status", apiErr.StatusCode),
			slog.String("error", err.Error()))
	}
	render.Render(w, r, apierrors.NewErrorResponse(apiErr))
}
