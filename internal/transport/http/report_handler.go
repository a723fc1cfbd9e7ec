package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "catalogcli/internal/errors"
)

// ReportHandler serves the sections of a completed catalog report with
// RFC 7807 error responses
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes, mounted under /api/report
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Get("/summary", h.GetSummary)
	r.Get("/genres", h.GetGenres)
	r.Get("/temporal", h.GetTemporal)
	r.Get("/forecast", h.GetForecast)

	return r
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetSummary handles GET /api/report/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetGenres handles GET /api/report/genres?top=K. Without top the whole
// table is returned.
func (h *ReportHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("top", "top must be an integer"))
			return
		}
		top = n
	}

	genres, err := h.service.Genres(r.Context(), top)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"genres": genres,
		"count":  len(genres),
	})
}

// GetTemporal handles GET /api/report/temporal
func (h *ReportHandler) GetTemporal(w http.ResponseWriter, r *http.Request) {
	temporal, err := h.service.Temporal(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, temporal)
}

// GetForecast handles GET /api/report/forecast
func (h *ReportHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.service.Forecast(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, forecast)
}
