package performance

import (
	"fmt"
	"net/http"

	"kam_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves the performance report endpoints.
type Handler struct {
	analyzer *Analyzer
}

// NewHandler creates a performance handler.
func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the report routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.WellPerforming)
	rg.GET("/underperforming", h.Underperforming)
	rg.GET("/patterns/:leadId", h.OrderingPatterns)
	rg.GET("/export", h.Export)
}

// WellPerforming lists accounts meeting the order threshold.
// GET /api/v1/performance?timeframe=&threshold=
func (h *Handler) WellPerforming(c *gin.Context) {
	timeframe := httpkit.QueryInt(c, "timeframe", DefaultTimeframeDays, 1)
	threshold := httpkit.QueryInt(c, "threshold", DefaultThreshold, 0)

	result, err := h.analyzer.WellPerforming(c.Request.Context(), timeframe, threshold)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Underperforming lists accounts short of their expected order count.
// GET /api/v1/performance/underperforming?timeframe=&threshold=
func (h *Handler) Underperforming(c *gin.Context) {
	timeframe := httpkit.QueryInt(c, "timeframe", DefaultTimeframeDays, 1)
	threshold := httpkit.QueryInt(c, "threshold", DefaultThreshold, 0)

	result, err := h.analyzer.Underperforming(c.Request.Context(), timeframe, threshold)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// OrderingPatterns reports one account's order cadence.
// GET /api/v1/performance/patterns/:leadId?timeframe=
func (h *Handler) OrderingPatterns(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}
	timeframe := httpkit.QueryInt(c, "timeframe", DefaultPatternTimeframeDays, 1)

	result, err := h.analyzer.OrderingPatterns(c.Request.Context(), leadID, timeframe)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Export streams both classifications as an xlsx workbook.
// GET /api/v1/performance/export?timeframe=&threshold=
func (h *Handler) Export(c *gin.Context) {
	timeframe := httpkit.QueryInt(c, "timeframe", DefaultTimeframeDays, 1)
	threshold := httpkit.QueryInt(c, "threshold", DefaultThreshold, 0)
	ctx := c.Request.Context()

	well, err := h.analyzer.WellPerforming(ctx, timeframe, threshold)
	if httpkit.HandleError(c, err) {
		return
	}
	under, err := h.analyzer.Underperforming(ctx, timeframe, threshold)
	if httpkit.HandleError(c, err) {
		return
	}

	book, err := BuildWorkbook(well, under)
	if httpkit.HandleError(c, err) {
		return
	}
	defer func() { _ = book.Close() }()

	filename := fmt.Sprintf("performance-%dd.xlsx", well.Timeframe)
	httpkit.Attachment(c, filename, xlsxContentType)
	if err := book.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
