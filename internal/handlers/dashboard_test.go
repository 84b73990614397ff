package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/models"
	"github.com/sigo-dev/sigo/internal/powerbi"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seedDashboard(t *testing.T, id, workspaceID, name string) {
	t.Helper()

	dashboard := models.Dashboard{
		ID:          id,
		Name:        name,
		WorkspaceID: workspaceID,
	}
	require.NoError(t, f.db.Create(&dashboard).Error)
}

func TestListDashboards(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.seedDashboard(t, "dash-1", "ws-1", "Revenue")
	f.seedDashboard(t, "dash-2", "ws-1", "Churn")

	resp := f.request(t, http.MethodGet, "/v1/powerbi/dashboards", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var dashboards []struct {
		DashboardID string `json:"dashboard_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dashboards))
	require.Len(t, dashboards, 2)
}

func TestGetDashboard(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.seedDashboard(t, "dash-1", "ws-1", "Revenue")

	resp := f.request(t, http.MethodGet, "/v1/powerbi/workspace/ws-1/dashboard/dash-1", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		DashboardName string `json:"dashboard_name"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "Revenue", body.DashboardName)

	resp = f.request(t, http.MethodGet, "/v1/powerbi/workspace/ws-2/dashboard/dash-1", token, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateDashboard(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")
	groupID := f.createGroup(t, token, "analysts")

	f.seedDashboard(t, "dash-1", "ws-1", "Revenue")

	resp := f.request(t, http.MethodPatch, "/v1/powerbi/dashboard/dash-1", token, gin.H{
		"group_id":    groupID,
		"pipeline_id": "pipe-1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		GroupID    *uint  `json:"group_id"`
		GroupName  string `json:"group_name"`
		PipelineID string `json:"pipeline_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotNil(t, body.GroupID)
	require.Equal(t, groupID, *body.GroupID)
	require.Equal(t, "analysts", body.GroupName)
	require.Equal(t, "pipe-1", body.PipelineID)

	// Pointing at a missing group fails.
	resp = f.request(t, http.MethodPatch, "/v1/powerbi/dashboard/dash-1", token, gin.H{
		"group_id": 9999,
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListDashboardsByGroup(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")
	groupID := f.createGroup(t, token, "analysts")

	f.seedDashboard(t, "dash-1", "ws-1", "Revenue")
	resp := f.request(t, http.MethodPatch, "/v1/powerbi/dashboard/dash-1", token, gin.H{
		"group_id": groupID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = f.request(t, http.MethodGet, fmt.Sprintf("/v1/powerbi/dashboards/group/%d", groupID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var dashboards []struct {
		DashboardID string `json:"dashboard_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dashboards))
	require.Len(t, dashboards, 1)

	resp = f.request(t, http.MethodGet, "/v1/powerbi/dashboards/group/9999", token, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteDashboard_UpstreamFirst(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.seedDashboard(t, "dash-1", "ws-1", "Revenue")

	// Upstream failure keeps the local record.
	f.gateway.On("DeleteDashboard", "ws-1", "dash-1").
		Return(&powerbi.UpstreamError{Op: "delete dashboard", Err: errors.New("boom")}).Once()

	resp := f.request(t, http.MethodDelete, "/v1/powerbi/dashboard/dash-1", token, gin.H{
		"workspace_id": "ws-1",
	})
	require.Equal(t, http.StatusBadGateway, resp.Code)

	var count int64
	require.NoError(t, f.db.Model(&models.Dashboard{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	// Upstream success removes it.
	f.gateway.On("DeleteDashboard", "ws-1", "dash-1").Return(nil).Once()

	resp = f.request(t, http.MethodDelete, "/v1/powerbi/dashboard/dash-1", token, gin.H{
		"workspace_id": "ws-1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, f.db.Model(&models.Dashboard{}).Count(&count).Error)
	require.Zero(t, count)

	f.gateway.AssertExpectations(t)
}

func TestRefreshStatus(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.gateway.On("GetDatasetRefreshHistory", "ws-1", "ds-1").Return([]powerbi.Refresh{
		{ID: 2, Status: "Completed", EndTime: "2024-01-02T03:04:05Z"},
		{ID: 1, Status: "Completed", EndTime: "2024-01-01T03:04:05Z"},
	}, nil).Once()

	resp := f.request(t, http.MethodGet, "/v1/powerbi/dashboard/refresh-status?workspace_id=ws-1&dataset_id=ds-1", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		RemainRefreshCount int     `json:"remain_refresh_count"`
		LastUpdatedAt      *string `json:"last_updated_at"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 6, body.RemainRefreshCount)
	require.NotNil(t, body.LastUpdatedAt)
	require.Equal(t, "2024-01-02T03:04:05Z", *body.LastUpdatedAt)

	resp = f.request(t, http.MethodGet, "/v1/powerbi/dashboard/refresh-status", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	f.gateway.AssertExpectations(t)
}

func TestTriggerRefresh(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.gateway.On("RefreshDataset", "ws-1", "dash-1").Return(nil).Once()

	resp := f.request(t, http.MethodPost, "/v1/powerbi/dashboard/refresh", token, gin.H{
		"workspace_id": "ws-1",
		"dashboard_id": "dash-1",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	f.gateway.AssertExpectations(t)
}

func TestSyncEndpoint(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.gateway.On("GetWorkspaces").Return([]powerbi.Workspace{
		{ID: "ws-1", Name: "Sales"},
	}, nil).Once()
	f.gateway.On("GetWorkspaceDashboards", "ws-1").Return([]powerbi.Dashboard{
		{ID: "dash-1", DisplayName: "Revenue"},
		{ID: "dash-2", DisplayName: "Churn"},
	}, nil).Once()

	resp := f.request(t, http.MethodPost, "/v1/powerbi/sync", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 2, body.Count)

	f.gateway.AssertExpectations(t)
}

func TestSyncEndpoint_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@b.com", "pw123secret")
	token := f.login(t, "a@b.com", "pw123secret")

	f.gateway.On("GetWorkspaces").
		Return(nil, &powerbi.UpstreamError{Op: "list workspaces", Err: errors.New("boom")}).Once()

	resp := f.request(t, http.MethodPost, "/v1/powerbi/sync", token, nil)
	require.Equal(t, http.StatusBadGateway, resp.Code)

	f.gateway.AssertExpectations(t)
}
