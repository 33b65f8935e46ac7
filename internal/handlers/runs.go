package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/srimaansri/cooling-the-cloud/internal/service"
)

// @Summary      List recent runs
// @Tags         runs
// @Produce      json
// @Param        limit  query   int  false  "Max rows to return (default 10, cap 200)"
// @Success      200    {object}  map[string]interface{}  "count, runs"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit': must be an integer"})
		return
	}

	runs, err := h.services.History.List(c.Request.Context(), limit)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListRunsFailed, "runs_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      Get a run with its hourly plan
// @Tags         runs
// @Produce      json
// @Param        id   path   string  true  "Run ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	run, err := h.services.History.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errRunNotFoundMsg})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadRunFailed, "run_get_failed", err, "run_id", c.Param("id"))
		return
	}

	c.JSON(http.StatusOK, run)
}

// @Summary      Trailing-window savings summary
// @Tags         runs
// @Produce      json
// @Param        days  query   int  false  "Window length in days (default 30)"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runs/summary [get]
// @Security     BearerAuth
func (h *Handler) periodSummary(c *gin.Context) {
	days, err := queryInt(c, "days")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'days': must be an integer"})
		return
	}

	sum, err := h.services.History.PeriodSummary(c.Request.Context(), days)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSummaryFailed, "period_summary_failed", err)
		return
	}

	c.JSON(http.StatusOK, sum)
}

// @Summary      Plain-text run report
// @Tags         runs
// @Produce      plain
// @Param        id   path   string  true  "Run ID"
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/{id}/report [get]
// @Security     BearerAuth
func (h *Handler) runReport(c *gin.Context) {
	text, err := h.services.Reporter.Text(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errRunNotFoundMsg})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errReportFailed, "run_report_failed", err, "run_id", c.Param("id"))
		return
	}

	c.String(http.StatusOK, text)
}

// queryInt reads an optional integer query param; absent means zero.
func queryInt(c *gin.Context, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func queryInt64(c *gin.Context, name string) (int64, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
