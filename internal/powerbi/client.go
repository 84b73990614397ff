// Package powerbi is a minimal client for the handful of Power BI REST
// API calls the backend consumes.
package powerbi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the Power BI REST API root.
	DefaultBaseURL = "https://api.powerbi.com/v1.0/myorg"

	scope = "https://analysis.windows.net/powerbi/api/.default"

	// Tokens are refreshed this long before they actually expire.
	tokenExpirySlack = time.Minute
)

// Config holds the client-credentials registration for the Power BI
// tenant. BaseURL and AuthorityURL are overridable for tests.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	BaseURL      string
	AuthorityURL string
}

// Client talks to the Power BI REST API. The access token obtained via
// the client-credentials exchange is cached until near expiry; the
// cache is safe for concurrent requests.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.AuthorityURL == "" {
		cfg.AuthorityURL = fmt.Sprintf(
			"https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"scope":         {scope},
	}

	resp, err := c.httpClient.Post(
		c.cfg.AuthorityURL,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)

	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return c.accessToken, nil
}

func (c *Client) do(method, path string, payload interface{}, out interface{}) error {
	token, err := c.token()

	if err != nil {
		return err
	}

	var body io.Reader

	if payload != nil {
		raw, err := json.Marshal(payload)

		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, c.cfg.BaseURL+path, body)

	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// valueEnvelope is how the Power BI API wraps list responses.
type valueEnvelope[T any] struct {
	Value []T `json:"value"`
}

func (c *Client) GetWorkspaces() ([]Workspace, error) {
	var envelope valueEnvelope[Workspace]

	if err := c.do(http.MethodGet, "/groups", nil, &envelope); err != nil {
		return nil, &UpstreamError{Op: "list workspaces", Err: err}
	}

	return envelope.Value, nil
}

func (c *Client) GetWorkspaceDashboards(workspaceID string) ([]Dashboard, error) {
	var envelope valueEnvelope[Dashboard]

	path := fmt.Sprintf("/groups/%s/dashboards", workspaceID)

	if err := c.do(http.MethodGet, path, nil, &envelope); err != nil {
		return nil, &UpstreamError{Op: "list dashboards", Err: err}
	}

	return envelope.Value, nil
}

func (c *Client) GetWorkspaceDashboard(workspaceID, dashboardID string) (*Dashboard, error) {
	var dashboard Dashboard

	path := fmt.Sprintf("/groups/%s/dashboards/%s", workspaceID, dashboardID)

	if err := c.do(http.MethodGet, path, nil, &dashboard); err != nil {
		return nil, &UpstreamError{Op: "get dashboard", Err: err}
	}

	return &dashboard, nil
}

func (c *Client) DeleteDashboard(workspaceID, dashboardID string) error {
	path := fmt.Sprintf("/groups/%s/dashboards/%s", workspaceID, dashboardID)

	if err := c.do(http.MethodDelete, path, nil, nil); err != nil {
		return &UpstreamError{Op: "delete dashboard", Err: err}
	}

	return nil
}

func (c *Client) RefreshDataset(workspaceID, datasetID string) error {
	path := fmt.Sprintf("/groups/%s/datasets/%s/refreshes", workspaceID, datasetID)

	if err := c.do(http.MethodPost, path, struct{}{}, nil); err != nil {
		return &UpstreamError{Op: "refresh dataset", Err: err}
	}

	return nil
}

func (c *Client) GetDatasetRefreshHistory(workspaceID, datasetID string) ([]Refresh, error) {
	var envelope valueEnvelope[Refresh]

	path := fmt.Sprintf("/groups/%s/datasets/%s/refreshes", workspaceID, datasetID)

	if err := c.do(http.MethodGet, path, nil, &envelope); err != nil {
		return nil, &UpstreamError{Op: "refresh history", Err: err}
	}

	return envelope.Value, nil
}
