package powerbi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sigo-dev/sigo/internal/powerbi"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, api http.Handler) (*powerbi.Client, *int64) {
	t.Helper()

	var tokenRequests int64

	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tokenRequests, 1)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.FormValue("grant_type"))
		require.Equal(t, "client-id", r.FormValue("client_id"))
		require.Equal(t, "client-secret", r.FormValue("client_secret"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(authServer.Close)

	apiServer := httptest.NewServer(api)
	t.Cleanup(apiServer.Close)

	client := powerbi.NewClient(powerbi.Config{
		TenantID:     "tenant",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      apiServer.URL,
		AuthorityURL: authServer.URL,
	})

	return client, &tokenRequests
}

func TestClient_GetWorkspaces(t *testing.T) {
	client, tokenRequests := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "/groups", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]string{
				{"id": "ws-1", "name": "Sales"},
				{"id": "ws-2", "name": "Marketing"},
			},
		})
	}))

	workspaces, err := client.GetWorkspaces()
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	require.Equal(t, "ws-1", workspaces[0].ID)
	require.Equal(t, "Sales", workspaces[0].Name)

	// The cached token is reused on the second call.
	_, err = client.GetWorkspaces()
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt64(tokenRequests))
}

func TestClient_GetWorkspaceDashboards(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/groups/ws-1/dashboards", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]string{
				{"id": "dash-1", "displayName": "Revenue", "embedUrl": "https://embed/1", "webUrl": "https://web/1"},
			},
		})
	}))

	dashboards, err := client.GetWorkspaceDashboards("ws-1")
	require.NoError(t, err)
	require.Len(t, dashboards, 1)
	require.Equal(t, "Revenue", dashboards[0].DisplayName)
	require.Equal(t, "https://embed/1", dashboards[0].EmbedURL)
}

func TestClient_UpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))

	_, err := client.GetWorkspaces()

	var upstream *powerbi.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, "list workspaces", upstream.Op)
}

func TestClient_DeleteDashboard(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/groups/ws-1/dashboards/dash-1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.DeleteDashboard("ws-1", "dash-1"))
}

func TestClient_RefreshDatasetAndHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/groups/ws-1/datasets/ds-1/refreshes", r.URL.Path)

		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusAccepted)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value": []map[string]interface{}{
					{"id": 1, "status": "Completed", "endTime": "2024-01-02T03:04:05Z"},
				},
			})
		}
	}))

	require.NoError(t, client.RefreshDataset("ws-1", "ds-1"))

	history, err := client.GetDatasetRefreshHistory("ws-1", "ds-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Completed", history[0].Status)
	require.Equal(t, "2024-01-02T03:04:05Z", history[0].EndTime)
}
