package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pesa-dev/networth_snapshot_service/internal/apperrors"
	portssvc "github.com/pesa-dev/networth_snapshot_service/internal/core/ports/services"
	"github.com/pesa-dev/networth_snapshot_service/internal/dto"
	"github.com/pesa-dev/networth_snapshot_service/internal/middleware"
	"github.com/ulule/limiter/v3"
)

// triggerHandler exposes the operational trigger endpoints: the account-change
// notification fired by the account-management collaborator and a manual full
// sweep for operators.
type triggerHandler struct {
	snapshotService portssvc.SnapshotSvcFacade
	sweepService    portssvc.SweepSvcFacade
}

// newTriggerHandler creates a new triggerHandler.
func newTriggerHandler(ss portssvc.SnapshotSvcFacade, ws portssvc.SweepSvcFacade) *triggerHandler {
	return &triggerHandler{
		snapshotService: ss,
		sweepService:    ws,
	}
}

// RegisterTriggerRoutes registers the internal trigger routes.
func RegisterTriggerRoutes(rg *gin.RouterGroup, snapshotService portssvc.SnapshotSvcFacade, sweepService portssvc.SweepSvcFacade, triggerLimiter *limiter.Limiter) {
	h := newTriggerHandler(snapshotService, sweepService)

	internal := rg.Group("/internal", middleware.RateLimit(triggerLimiter))
	{
		internal.POST("/account-change", h.accountChange)
		internal.POST("/sweep", h.runSweep)
	}
}

// accountChange godoc
// @Summary Account change notification
// @Description Fired by the account-management service with the before/after state of one account. Re-aggregates the owning user's snapshot for today unless the balance is unchanged.
// @Tags triggers
// @Accept json
// @Produce json
// @Param event body dto.AccountChangeRequest true "Before/after account state"
// @Success 200 {object} dto.AccountChangeResponse
// @Failure 400 {object} map[string]string "Invalid event payload"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Re-aggregation failed"
// @Security BearerAuth
// @Router /internal/account-change [post]
func (h *triggerHandler) accountChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AccountChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for account change", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	written, err := h.snapshotService.HandleAccountChange(c.Request.Context(), req.Before.ToDomainAccount(), req.After.ToDomainAccount())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid account change event", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to handle account change", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to re-aggregate snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.AccountChangeResponse{Written: written})
}

// runSweep godoc
// @Summary Run a full sweep now
// @Description Aggregates every user with at least one account, exactly like the daily scheduled sweep. Per-user failures are reported, not fatal.
// @Tags triggers
// @Produce json
// @Success 200 {object} dto.SweepReportResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Account store unreachable"
// @Security BearerAuth
// @Router /internal/sweep [post]
func (h *triggerHandler) runSweep(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received manual sweep request")

	report, err := h.sweepService.RunSweep(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			logger.Error("Account store unavailable for sweep", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Account store unavailable, please retry"})
			return
		}
		logger.Error("Manual sweep failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSweepReportResponse(report))
}
