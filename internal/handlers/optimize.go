package handlers

import (
	"errors"
	"net/http"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"
	"github.com/srimaansri/cooling-the-cloud/internal/service"
	"github.com/srimaansri/cooling-the-cloud/internal/timeseries"

	"github.com/gin-gonic/gin"
)

const (
	errOptimizeFailed  = "optimization failed"
	errForecastFailed  = "failed to build forecast"
	errInvalidBodyPref = "invalid body: "
	errRunNotFoundMsg  = "run not found"
	errLoadRunFailed   = "failed to load run"
	errListRunsFailed  = "failed to load run history"
	errSummaryFailed   = "failed to build period summary"
	errReportFailed    = "failed to render report"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for an optimization run. Series accept either a 24-element
// array or an hour-keyed object; omitted series use the deterministic
// fallback for the requested date.
type optimizeRequest struct {
	Temperature *timeseries.Raw              `json:"temperature_f,omitempty"`
	Price       *timeseries.Raw              `json:"electricity_price,omitempty"`
	WaterPrice  *float64                     `json:"water_price,omitempty"`
	Config      *coolingcloud.FacilityConfig `json:"config,omitempty"`
	Date        string                       `json:"date,omitempty"` // YYYY-MM-DD
	Seed        int64                        `json:"seed,omitempty"`
	Variant     string                       `json:"variant,omitempty"` // full | linear
	Solver      string                       `json:"solver,omitempty"`
}

// OptimizeRequest is an exported model for Swagger docs of the optimize payload.
type OptimizeRequest struct {
	// Hourly dry-bulb temperature, °F. 24 values or hour-keyed object.
	TemperatureF []float64 `json:"temperature_f,omitempty"`
	// Hourly electricity price, $/MWh. 24 values or hour-keyed object.
	ElectricityPrice []float64 `json:"electricity_price,omitempty"`
	// Water price in $ per 1000 gallons.
	WaterPrice float64 `json:"water_price,omitempty" example:"4.5"`
	// Plan date, YYYY-MM-DD. Defaults to today.
	Date string `json:"date,omitempty" example:"2026-08-24"`
	// RNG seed for fallback data. Zero derives one from the date.
	Seed int64 `json:"seed,omitempty"`
	// Model variant: full (MIP) or linear (LP relaxation).
	Variant string `json:"variant,omitempty" example:"full"`
	// Preferred solver: highs, glpk, cbc or simplex.
	Solver string `json:"solver,omitempty" example:"highs"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// @Summary      Run day-ahead optimization
// @Description  Solves the cooling and batch-load schedule for one day. Missing input series are synthesized deterministically.
// @Tags         optimize
// @Accept       json
// @Produce      json
// @Param        body  body   OptimizeRequest  true  "Optimization inputs; all fields optional"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/optimize [post]
// @Security     BearerAuth
func (h *Handler) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	run, err := h.services.Optimization.Run(c.Request.Context(), service.OptimizeParams{
		Temperature:     req.Temperature,
		Price:           req.Price,
		WaterPrice:      req.WaterPrice,
		Config:          req.Config,
		Date:            req.Date,
		Seed:            req.Seed,
		Variant:         req.Variant,
		PreferredSolver: req.Solver,
	})
	if err != nil {
		var verr *timeseries.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errOptimizeFailed, "optimize_failed", err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// @Summary      Demo day forecast
// @Description  Returns the deterministic fallback temperature/price day plus derived cooling demand, without solving.
// @Tags         forecast
// @Produce      json
// @Param        date  query   string  false  "Plan date YYYY-MM-DD (default today)"  example(2026-08-24)
// @Param        seed  query   int     false  "RNG seed; 0 derives one from the date"
// @Success      200   {object}  service.DayForecast
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/forecast [get]
// @Security     BearerAuth
func (h *Handler) forecast(c *gin.Context) {
	seed, err := queryInt64(c, "seed")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'seed': must be an integer"})
		return
	}

	fc, err := h.services.Forecast.Day(c.Query("date"), seed)
	if err != nil {
		var verr *timeseries.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errForecastFailed, "forecast_failed", err)
		return
	}

	c.JSON(http.StatusOK, fc)
}
