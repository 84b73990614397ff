package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/models"
	"github.com/sigo-dev/sigo/internal/powerbi"
	"github.com/sigo-dev/sigo/internal/services"
	"github.com/sigo-dev/sigo/internal/store"
	"github.com/sigo-dev/sigo/internal/types"
)

// dailyRefreshQuota approximates the Power BI Pro refresh limit. The
// remaining count reported by refresh-status is quota minus the length
// of the refresh history, not an authoritative number.
const dailyRefreshQuota = 8

type DashboardHandler struct {
	dashboards *store.DashboardStore
	gateway    services.Gateway
	syncer     *services.Syncer
}

func NewDashboardHandler(dashboards *store.DashboardStore, gateway services.Gateway, syncer *services.Syncer) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, gateway: gateway, syncer: syncer}
}

type UpdateDashboardRequest struct {
	GroupID         *uint   `json:"group_id"`
	BackgroundImage *string `json:"background_image"`
	PipelineID      *string `json:"pipeline_id"`
}

type DeleteDashboardRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
}

type RefreshRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required"`
	DashboardID string `json:"dashboard_id" binding:"required"`
}

func (h *DashboardHandler) List(ctx *gin.Context) {
	dashboards, err := h.dashboards.ListAll()

	if err != nil {
		log.Printf("Failed to list dashboards: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, dashboardResponses(dashboards))
}

func (h *DashboardHandler) Get(ctx *gin.Context) {
	workspaceID := ctx.Param("workspace_id")
	dashboardID := ctx.Param("dashboard_id")

	dashboard, err := h.dashboards.GetByWorkspaceAndID(workspaceID, dashboardID)

	if err != nil {
		if errors.Is(err, store.ErrDashboardNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}
		log.Printf("Failed to fetch dashboard: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewDashboardResponse(*dashboard))
}

func (h *DashboardHandler) ListByGroup(ctx *gin.Context) {
	groupID, ok := parseUintParam(ctx, "group_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	dashboards, err := h.dashboards.ListByGroup(groupID)

	if err != nil {
		if errors.Is(err, store.ErrGroupNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		log.Printf("Failed to list dashboards for group: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, dashboardResponses(dashboards))
}

func (h *DashboardHandler) Update(ctx *gin.Context) {
	dashboardID := ctx.Param("dashboard_id")

	var req UpdateDashboardRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dashboard, err := h.dashboards.Update(dashboardID, store.UpdateDashboardParams{
		GroupID:         req.GroupID,
		BackgroundImage: req.BackgroundImage,
		PipelineID:      req.PipelineID,
	})

	if err != nil {
		switch {
		case errors.Is(err, store.ErrDashboardNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
		case errors.Is(err, store.ErrGroupNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		default:
			log.Printf("Failed to update dashboard: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewDashboardResponse(*dashboard))
}

// Delete removes the dashboard from Power BI first; the local record is
// only dropped once the upstream delete succeeded.
func (h *DashboardHandler) Delete(ctx *gin.Context) {
	dashboardID := ctx.Param("dashboard_id")

	var req DeleteDashboardRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id is required"})
		return
	}

	if err := h.gateway.DeleteDashboard(req.WorkspaceID, dashboardID); err != nil {
		log.Printf("Failed to delete dashboard upstream: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Error deleting dashboard from Power BI"})
		return
	}

	err := h.dashboards.Delete(req.WorkspaceID, dashboardID)

	if err != nil && !errors.Is(err, store.ErrDashboardNotFound) {
		log.Printf("Failed to delete dashboard locally: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Dashboard deleted successfully"})
}

func (h *DashboardHandler) Refresh(ctx *gin.Context) {
	var req RefreshRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// The dashboard id doubles as the dataset id here; a proper
	// dashboard-to-dataset mapping needs the Power BI datasets API.
	if err := h.gateway.RefreshDataset(req.WorkspaceID, req.DashboardID); err != nil {
		log.Printf("Failed to trigger refresh: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Error triggering dataset refresh"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Refresh started successfully"})
}

func (h *DashboardHandler) RefreshStatus(ctx *gin.Context) {
	workspaceID := ctx.Query("workspace_id")
	datasetID := ctx.Query("dataset_id")

	if workspaceID == "" || datasetID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id and dataset_id are required"})
		return
	}

	history, err := h.gateway.GetDatasetRefreshHistory(workspaceID, datasetID)

	if err != nil {
		log.Printf("Failed to fetch refresh history: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Error getting refresh status"})
		return
	}

	response := types.RefreshStatusResponse{
		RemainRefreshCount: dailyRefreshQuota - len(history),
	}

	if len(history) > 0 && history[0].EndTime != "" {
		response.LastUpdatedAt = &history[0].EndTime
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) Sync(ctx *gin.Context) {
	dashboards, err := h.syncer.Sync()

	if err != nil {
		var upstream *powerbi.UpstreamError

		if errors.As(err, &upstream) {
			log.Printf("Sync failed upstream: %v", err)
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "Error syncing dashboards from Power BI"})
			return
		}

		log.Printf("Sync failed: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "Dashboards synced successfully from Power BI",
		"count":      len(dashboards),
		"dashboards": dashboardResponses(dashboards),
	})
}

func dashboardResponses(dashboards []models.Dashboard) []types.DashboardResponse {
	response := make([]types.DashboardResponse, 0, len(dashboards))

	for _, dashboard := range dashboards {
		response = append(response, types.NewDashboardResponse(dashboard))
	}

	return response
}
