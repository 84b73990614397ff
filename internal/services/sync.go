// Package services holds logic that spans the local store and the
// Power BI gateway.
package services

import (
	"errors"
	"log"

	"github.com/sigo-dev/sigo/internal/models"
	"github.com/sigo-dev/sigo/internal/powerbi"
	"gorm.io/gorm"
)

// Gateway is the slice of the Power BI API the backend consumes.
// *powerbi.Client satisfies it; tests substitute a mock.
type Gateway interface {
	GetWorkspaces() ([]powerbi.Workspace, error)
	GetWorkspaceDashboards(workspaceID string) ([]powerbi.Dashboard, error)
	GetWorkspaceDashboard(workspaceID, dashboardID string) (*powerbi.Dashboard, error)
	DeleteDashboard(workspaceID, dashboardID string) error
	RefreshDataset(workspaceID, datasetID string) error
	GetDatasetRefreshHistory(workspaceID, datasetID string) ([]powerbi.Refresh, error)
}

// Syncer pulls dashboard metadata from Power BI into the local store.
type Syncer struct {
	db      *gorm.DB
	gateway Gateway
}

func NewSyncer(db *gorm.DB, gateway Gateway) *Syncer {
	return &Syncer{db: db, gateway: gateway}
}

// Sync walks every workspace and upserts its dashboards keyed on the
// dashboard id, in one transaction. A workspace whose dashboard listing
// fails is logged and skipped; a failure to list workspaces aborts the
// whole sync with nothing written.
func (s *Syncer) Sync() ([]models.Dashboard, error) {
	workspaces, err := s.gateway.GetWorkspaces()

	if err != nil {
		return nil, err
	}

	var synced []models.Dashboard

	err = s.db.Transaction(func(tx *gorm.DB) error {
		synced = synced[:0]

		for _, ws := range workspaces {
			dashboards, err := s.gateway.GetWorkspaceDashboards(ws.ID)

			if err != nil {
				log.Printf("Failed to sync dashboards from workspace %s: %v", ws.ID, err)
				continue
			}

			for _, d := range dashboards {
				record, err := upsertDashboard(tx, ws, d)

				if err != nil {
					return err
				}

				synced = append(synced, *record)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return synced, nil
}

func upsertDashboard(tx *gorm.DB, ws powerbi.Workspace, d powerbi.Dashboard) (*models.Dashboard, error) {
	var existing models.Dashboard

	err := tx.Where("id = ?", d.ID).First(&existing).Error

	if err == nil {
		updates := map[string]interface{}{
			"name":           d.DisplayName,
			"workspace_id":   ws.ID,
			"workspace_name": ws.Name,
			"embed_url":      d.EmbedURL,
			"web_url":        d.WebURL,
		}

		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}

		existing.Name = d.DisplayName
		existing.WorkspaceID = ws.ID
		existing.WorkspaceName = ws.Name
		existing.EmbedURL = d.EmbedURL
		existing.WebURL = d.WebURL

		return &existing, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record := models.Dashboard{
		ID:            d.ID,
		Name:          d.DisplayName,
		WorkspaceID:   ws.ID,
		WorkspaceName: ws.Name,
		EmbedURL:      d.EmbedURL,
		WebURL:        d.WebURL,
	}

	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}
