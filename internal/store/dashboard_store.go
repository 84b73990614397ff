package store

import (
	"errors"

	"github.com/sigo-dev/sigo/internal/models"
	"gorm.io/gorm"
)

// DashboardStore owns access to mirrored dashboard records.
type DashboardStore struct {
	db *gorm.DB
}

func NewDashboardStore(db *gorm.DB) *DashboardStore {
	return &DashboardStore{db: db}
}

type UpdateDashboardParams struct {
	GroupID         *uint
	BackgroundImage *string
	PipelineID      *string
}

func (s *DashboardStore) ListAll() ([]models.Dashboard, error) {
	var dashboards []models.Dashboard

	if err := s.db.Preload("Group").Find(&dashboards).Error; err != nil {
		return nil, err
	}

	return dashboards, nil
}

func (s *DashboardStore) GetByWorkspaceAndID(workspaceID, dashboardID string) (*models.Dashboard, error) {
	var dashboard models.Dashboard

	err := s.db.Preload("Group").
		Where("id = ? AND workspace_id = ?", dashboardID, workspaceID).
		First(&dashboard).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, err
	}

	return &dashboard, nil
}

func (s *DashboardStore) ListByGroup(groupID uint) ([]models.Dashboard, error) {
	if err := s.db.First(&models.Group{}, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	var dashboards []models.Dashboard

	err := s.db.Preload("Group").Where("group_id = ?", groupID).Find(&dashboards).Error

	if err != nil {
		return nil, err
	}

	return dashboards, nil
}

// Update changes the locally-owned fields only; everything mirrored
// from Power BI is written by the sync instead.
func (s *DashboardStore) Update(dashboardID string, params UpdateDashboardParams) (*models.Dashboard, error) {
	var dashboard models.Dashboard

	if err := s.db.Where("id = ?", dashboardID).First(&dashboard).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.GroupID != nil {
		if err := s.db.First(&models.Group{}, *params.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}

		updates["group_id"] = *params.GroupID
	}

	if params.BackgroundImage != nil {
		updates["background_image"] = *params.BackgroundImage
	}

	if params.PipelineID != nil {
		updates["pipeline_id"] = *params.PipelineID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&dashboard).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Dashboard

	if err := s.db.Preload("Group").Where("id = ?", dashboardID).First(&updated).Error; err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *DashboardStore) Delete(workspaceID, dashboardID string) error {
	var dashboard models.Dashboard

	err := s.db.Where("id = ? AND workspace_id = ?", dashboardID, workspaceID).First(&dashboard).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDashboardNotFound
		}
		return err
	}

	return s.db.Delete(&dashboard).Error
}
