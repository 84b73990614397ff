package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/auth"
	"github.com/sigo-dev/sigo/internal/models"
	"github.com/sigo-dev/sigo/internal/powerbi"
	"github.com/sigo-dev/sigo/internal/router"
	"github.com/sigo-dev/sigo/internal/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gatewayMock struct{ mock.Mock }

var _ services.Gateway = (*gatewayMock)(nil)

func (m *gatewayMock) GetWorkspaces() ([]powerbi.Workspace, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]powerbi.Workspace), args.Error(1)
}

func (m *gatewayMock) GetWorkspaceDashboards(workspaceID string) ([]powerbi.Dashboard, error) {
	args := m.Called(workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]powerbi.Dashboard), args.Error(1)
}

func (m *gatewayMock) GetWorkspaceDashboard(workspaceID, dashboardID string) (*powerbi.Dashboard, error) {
	args := m.Called(workspaceID, dashboardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*powerbi.Dashboard), args.Error(1)
}

func (m *gatewayMock) DeleteDashboard(workspaceID, dashboardID string) error {
	return m.Called(workspaceID, dashboardID).Error(0)
}

func (m *gatewayMock) RefreshDataset(workspaceID, datasetID string) error {
	return m.Called(workspaceID, datasetID).Error(0)
}

func (m *gatewayMock) GetDatasetRefreshHistory(workspaceID, datasetID string) ([]powerbi.Refresh, error) {
	args := m.Called(workspaceID, datasetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]powerbi.Refresh), args.Error(1)
}

type fixture struct {
	engine  *gin.Engine
	db      *gorm.DB
	gateway *gatewayMock
	issuer  *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Membership{},
		&models.Dashboard{},
	)
	require.NoError(t, err)

	gateway := new(gatewayMock)
	issuer := auth.NewTokenIssuer("test-secret", time.Minute)

	engine := router.New(router.Dependencies{
		DB:      db,
		Issuer:  issuer,
		Gateway: gateway,
	})

	return &fixture{engine: engine, db: db, gateway: gateway, issuer: issuer}
}

func (f *fixture) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer = bytes.NewBuffer(nil)

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	f.engine.ServeHTTP(recorder, req)

	return recorder
}

// signup creates a user through the API and returns its id.
func (f *fixture) signup(t *testing.T, email, password string) uint {
	t.Helper()

	resp := f.request(t, http.MethodPost, "/v1/users", "", gin.H{
		"username": "user " + email,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotZero(t, body.ID)

	return body.ID
}

// login performs a password login and returns the bearer token.
func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()

	resp := f.request(t, http.MethodPost, "/v1/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken
}
