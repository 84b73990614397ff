package powerbi

// Workspace is a Power BI workspace ("group" in the Power BI API).
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Dashboard is a dashboard as returned by the Power BI API.
type Dashboard struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	EmbedURL    string `json:"embedUrl"`
	WebURL      string `json:"webUrl"`
}

// Refresh is one entry of a dataset's refresh history.
type Refresh struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}
