package dashboard

import (
	"covid-trends/internal/dataset"
	"covid-trends/internal/model"
	"covid-trends/internal/store"
	"covid-trends/internal/view"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Handlers serves the dashboard API over a shared Loader.
type Handlers struct {
	loader *Loader
}

// NewHandlers creates the handler set.
func NewHandlers(loader *Loader) *Handlers {
	return &Handlers{loader: loader}
}

// Health reports liveness.
// @Summary Health check
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is up"
// @Router /healthz [get]
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Meta returns the filterable dimensions of the loaded dataset.
// @Summary Dataset metadata
// @Description Countries, date bounds, selectable metrics and last refresh time
// @Produce json
// @Success 200 {object} map[string]interface{} "Dataset metadata"
// @Router /api/meta [get]
func (h *Handlers) Meta(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"countries":    snap.Countries,
		"min_date":     snap.MinDate.Format("2006-01-02"),
		"max_date":     snap.MaxDate.Format("2006-01-02"),
		"metrics":      model.Metrics,
		"last_updated": snap.LastUpdated,
	})
}

// Overview returns the overview view for the current filter selection.
// @Summary Overview view
// @Produce json
// @Param countries query string false "Comma-separated country list (default: all)"
// @Param from query string false "Start date YYYY-MM-DD, clamped to data bounds"
// @Param to query string false "End date YYYY-MM-DD, clamped to data bounds"
// @Success 200 {object} view.Overview "Overview chart specification"
// @Router /api/view/overview [get]
func (h *Handlers) Overview(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c, snap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view.BuildOverview(view.FilterSeries(snap.Series, f)))
}

// TimeSeries returns the time-series view for the current filter selection.
// @Summary Time-series view
// @Produce json
// @Param countries query string false "Comma-separated country list (default: all)"
// @Param from query string false "Start date YYYY-MM-DD, clamped to data bounds"
// @Param to query string false "End date YYYY-MM-DD, clamped to data bounds"
// @Param metric query string false "Metric name (default new_cases)"
// @Param window query int false "Moving-average window in days (default 7)"
// @Success 200 {object} view.TimeSeries "Time-series chart specification"
// @Router /api/view/timeseries [get]
func (h *Handlers) TimeSeries(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c, snap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view.BuildTimeSeries(view.FilterSeries(snap.Series, f), f.Metric, f.Window))
}

// Comparison returns the country-comparison view.
// @Summary Comparison view
// @Produce json
// @Param countries query string false "Comma-separated country list (default: all)"
// @Param from query string false "Start date YYYY-MM-DD, clamped to data bounds"
// @Param to query string false "End date YYYY-MM-DD, clamped to data bounds"
// @Param metric query string false "Metric name (default new_cases)"
// @Success 200 {object} view.Comparison "Comparison chart specification"
// @Router /api/view/comparison [get]
func (h *Handlers) Comparison(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c, snap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view.BuildComparison(view.FilterSeries(snap.Series, f), f.Metric))
}

// Vaccination returns the vaccination-progress view.
// @Summary Vaccination view
// @Produce json
// @Param countries query string false "Comma-separated country list (default: all)"
// @Param from query string false "Start date YYYY-MM-DD, clamped to data bounds"
// @Param to query string false "End date YYYY-MM-DD, clamped to data bounds"
// @Success 200 {object} view.Vaccination "Vaccination chart specification"
// @Router /api/view/vaccination [get]
func (h *Handlers) Vaccination(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	f, err := h.parseFilter(c, snap)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view.BuildVaccination(view.FilterVaccination(snap.Vaccination, f)))
}

// Runs lists recent refresh runs.
// @Summary Refresh run history
// @Produce json
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {object} map[string]interface{} "Recent refresh runs"
// @Failure 500 {object} map[string]interface{} "Run store unavailable"
// @Router /api/runs [get]
func (h *Handlers) Runs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// snapshot loads the dataset, degrading to an explicit no-data payload when
// the processed store is missing or empty.
func (h *Handlers) snapshot(c *gin.Context) (*Snapshot, bool) {
	snap, err := h.loader.Snapshot()
	if errors.Is(err, dataset.ErrNoData) {
		c.JSON(http.StatusOK, gin.H{"no_data": true, "message": "no data available"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load processed data"})
		return nil, false
	}
	return snap, true
}

// parseFilter builds the session filter from query params. Country selection
// defaults to every country; an explicitly empty selection is kept empty so
// views answer with their empty state. Dates clamp to the data bounds.
func (h *Handlers) parseFilter(c *gin.Context, snap *Snapshot) (model.Filter, error) {
	f := model.Filter{Window: 7}

	if raw, present := c.GetQuery("countries"); present {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				f.Countries = append(f.Countries, name)
			}
		}
	} else {
		f.Countries = snap.Countries
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, fmt.Errorf("invalid from date %q", from)
		}
		f.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, fmt.Errorf("invalid to date %q", to)
		}
		f.To = t
	}
	f = f.Clamp(snap.MinDate, snap.MaxDate)

	f.Metric = c.DefaultQuery("metric", "new_cases")
	if !model.ValidMetric(f.Metric) {
		return f, fmt.Errorf("unknown metric %q", f.Metric)
	}

	if w, err := strconv.Atoi(c.DefaultQuery("window", "7")); err == nil && w >= 1 && w <= 30 {
		f.Window = w
	}
	return f, nil
}
