package types

import (
	"time"

	"github.com/sigo-dev/sigo/internal/models"
)

const ContextUserKey = "user"

type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	BusinessArea   string    `json:"business_area"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		BusinessArea:   user.BusinessArea,
		ProfilePicture: user.ProfilePicture,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type GroupResponse struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	BackgroundImage string    `json:"background_image,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewGroupResponse(group models.Group) GroupResponse {
	return GroupResponse{
		ID:              group.ID,
		Name:            group.Name,
		Description:     group.Description,
		BackgroundImage: group.BackgroundImage,
		CreatedAt:       group.CreatedAt,
		UpdatedAt:       group.UpdatedAt,
	}
}

type GroupWithUsersResponse struct {
	GroupResponse
	Users []UserResponse `json:"users"`
}

func NewGroupWithUsersResponse(group models.Group) GroupWithUsersResponse {
	users := make([]UserResponse, 0, len(group.Memberships))

	for _, membership := range group.Memberships {
		users = append(users, NewUserResponse(membership.User))
	}

	return GroupWithUsersResponse{
		GroupResponse: NewGroupResponse(group),
		Users:         users,
	}
}

type DashboardResponse struct {
	DashboardID      string     `json:"dashboard_id"`
	DashboardName    string     `json:"dashboard_name"`
	WorkspaceID      string     `json:"workspace_id"`
	WorkspaceName    string     `json:"workspace_name,omitempty"`
	GroupID          *uint      `json:"group_id"`
	GroupName        *string    `json:"group_name"`
	GroupDescription *string    `json:"group_description"`
	BackgroundImage  string     `json:"background_image,omitempty"`
	PipelineID       string     `json:"pipeline_id,omitempty"`
	EmbedURL         string     `json:"embed_url,omitempty"`
	WebURL           string     `json:"web_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewDashboardResponse(dashboard models.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		DashboardID:     dashboard.ID,
		DashboardName:   dashboard.Name,
		WorkspaceID:     dashboard.WorkspaceID,
		WorkspaceName:   dashboard.WorkspaceName,
		GroupID:         dashboard.GroupID,
		BackgroundImage: dashboard.BackgroundImage,
		PipelineID:      dashboard.PipelineID,
		EmbedURL:        dashboard.EmbedURL,
		WebURL:          dashboard.WebURL,
		CreatedAt:       dashboard.CreatedAt,
		UpdatedAt:       dashboard.UpdatedAt,
	}

	if dashboard.Group != nil {
		resp.GroupName = &dashboard.Group.Name
		resp.GroupDescription = &dashboard.Group.Description
	}

	return resp
}

type RefreshStatusResponse struct {
	RemainRefreshCount int     `json:"remain_refresh_count"`
	LastUpdatedAt      *string `json:"last_updated_at"`
}
