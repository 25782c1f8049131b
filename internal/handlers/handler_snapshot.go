package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	"github.com/pesa-dev/networth_snapshot_service/internal/core/domain"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/internal/dto"
	"github.com/pesa-dev/networth_snapshot_service/internal/middleware"
	"github.com/ulule/limiter/v3"
)

// snapshotHandler handles HTTP requests related to a caller's own snapshots.
type snapshotHandler struct {
	snapshotService portssvc.SnapshotSvcFacade
}

// newSnapshotHandler creates a new snapshotHandler.
func newSnapshotHandler(ss portssvc.SnapshotSvcFacade) *snapshotHandler {
	return &snapshotHandler{
		snapshotService: ss,
	}
}

// RegisterSnapshotRoutes registers routes related to snapshots.
func RegisterSnapshotRoutes(rg *gin.RouterGroup, snapshotService portssvc.SnapshotSvcFacade, triggerLimiter *limiter.Limiter) {
	h := newSnapshotHandler(snapshotService)

	snapshots := rg.Group("/snapshots")
	{
		snapshots.POST("/run", middleware.RateLimit(triggerLimiter), h.runSnapshot)
		snapshots.GET("", h.listSnapshots)
		snapshots.GET("/latest", h.getLatestSnapshot)
		snapshots.GET("/:date", h.getSnapshot)
	}
}

// runSnapshot godoc
// @Summary Compute today's net-worth snapshot on demand
// @Description Aggregates the caller's active accounts and upserts today's snapshot. Having no accounts is a normal outcome, reported in the response body rather than as an error.
// @Tags snapshots
// @Produce json
// @Success 200 {object} dto.RunSnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Account store unreachable"
// @Failure 500 {object} map[string]string "Snapshot write failed"
// @Security BearerAuth
// @Router /snapshots/run [post]
func (h *snapshotHandler) runSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Error()})
		return
	}

	logger.Info("Received on-demand snapshot request")

	result, err := h.snapshotService.AggregateUser(c.Request.Context(), userID, domain.TriggerOnDemand)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoAccounts) {
			c.JSON(http.StatusOK, dto.RunSnapshotResponse{
				Success: true,
				Message: "No active accounts found; nothing to snapshot",
			})
			return
		}
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Account store unavailable for on-demand snapshot", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Account store unavailable, please retry"})
			return
		}
		logger.Error("On-demand snapshot failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.RunSnapshotResponse{
		Success:      true,
		Message:      "Snapshot written",
		NetWorth:     &result.TotalNetWorth,
		AccountCount: &result.AccountCount,
	})
}

// listSnapshots godoc
// @Summary List the caller's snapshots
// @Description Retrieves a page of the caller's net-worth snapshots, newest first
// @Tags snapshots
// @Produce json
// @Param limit query int false "Page size" default(30)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListSnapshotsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list snapshots"
// @Security BearerAuth
// @Router /snapshots [get]
func (h *snapshotHandler) listSnapshots(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Error()})
		return
	}

	var params dto.ListSnapshotsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListSnapshots", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	snapshots, err := h.snapshotService.ListSnapshots(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list snapshots", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list snapshots"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSnapshotsResponse(snapshots))
}

// getLatestSnapshot godoc
// @Summary Get the caller's most recent snapshot
// @Tags snapshots
// @Produce json
// @Success 200 {object} dto.SnapshotResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No snapshots exist"
// @Failure 500 {object} map[string]string "Failed to retrieve snapshot"
// @Security BearerAuth
// @Router /snapshots/latest [get]
func (h *snapshotHandler) getLatestSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Error()})
		return
	}

	snapshot, err := h.snapshotService.GetLatestSnapshot(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No snapshots found"})
			return
		}
		logger.Error("Failed to get latest snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snapshot))
}

// getSnapshot godoc
// @Summary Get the caller's snapshot for a specific date
// @Tags snapshots
// @Produce json
// @Param date path string true "Snapshot date (YYYY-MM-DD)"
// @Success 200 {object} dto.SnapshotResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Snapshot not found"
// @Failure 500 {object} map[string]string "Failed to retrieve snapshot"
// @Security BearerAuth
// @Router /snapshots/{date} [get]
func (h *snapshotHandler) getSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrUnauthenticated.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	snapshot, err := h.snapshotService.GetSnapshot(c.Request.Context(), userID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Snapshot not found"})
			return
		}
		logger.Error("Failed to get snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snapshot))
}
