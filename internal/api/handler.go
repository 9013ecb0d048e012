// Package api serves the tournament calendar over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/itfcal/internal/logger"
	"github.com/jmylchreest/itfcal/internal/metrics"
	"github.com/jmylchreest/itfcal/internal/version"
	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// CacheControl is sent with every calendar response. Results may be served
// from a shared cache for half an hour and revalidated in the background.
const CacheControl = "s-maxage=1800, stale-while-revalidate"

// Runner performs one calendar scrape. *calendar.Scraper implements it.
type Runner interface {
	Run(ctx context.Context, startURL string, pageLimit int) tournament.Envelope
}

// Handler serves the calendar endpoints.
type Handler struct {
	runner      Runner
	baseURL     string
	defaultYear string
	pageLimit   int
	metrics     *metrics.Metrics
}

// NewHandler creates a handler that scrapes baseURL.
func NewHandler(runner Runner, baseURL, defaultYear string, pageLimit int) *Handler {
	return &Handler{
		runner:      runner,
		baseURL:     baseURL,
		defaultYear: defaultYear,
		pageLimit:   pageLimit,
	}
}

// WithMetrics records scrape metrics and exposes them on /metrics.
func (h *Handler) WithMetrics(m *metrics.Metrics) *Handler {
	h.metrics = m
	return h
}

// calendarQuery holds the accepted query parameters.
type calendarQuery struct {
	Year   string `form:"year" validate:"required,len=4,number"`
	Nation string `form:"nation" validate:"omitempty,len=3,alpha"`
}

var validate = validator.New()

// Calendar handles GET /api/itf. The response is always 200; failures are
// reported in the envelope.
func (h *Handler) Calendar(c *gin.Context) {
	c.Header("Cache-Control", CacheControl)

	var q calendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.metrics.ObserveRejected()
		c.JSON(http.StatusOK, tournament.Failure(h.baseURL, fmt.Errorf("invalid query: %w", err)))
		return
	}
	if q.Year == "" {
		q.Year = h.defaultYear
	}

	source := tournament.SourceURL(h.baseURL, q.Year, q.Nation)
	if err := CheckQuery(q.Year, q.Nation); err != nil {
		h.metrics.ObserveRejected()
		c.JSON(http.StatusOK, tournament.Failure(source, err))
		return
	}

	start := time.Now()
	env := h.runner.Run(c.Request.Context(), source, h.pageLimit)
	h.metrics.ObserveScrape(env, time.Since(start))

	logger.InfoContext(c.Request.Context(), "calendar served",
		"request_id", c.GetString(requestIDKey),
		"source", source,
		"ok", env.OK,
		"count", env.Count)

	c.JSON(http.StatusOK, env)
}

// CheckQuery validates a year and an optional nation code.
func CheckQuery(year, nation string) error {
	err := validate.Struct(calendarQuery{Year: year, Nation: nation})
	if err == nil {
		return nil
	}
	return queryError(err)
}

// queryError names the offending parameter.
func queryError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid query: %w", err)
	}
	switch fieldErrs[0].StructField() {
	case "Year":
		return errors.New("invalid query: year must be four digits")
	case "Nation":
		return errors.New("invalid query: nation must be a three-letter code")
	default:
		return fmt.Errorf("invalid query: %w", err)
	}
}

// HealthCheck handles GET /healthz.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Version handles GET /version.
func (h *Handler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
