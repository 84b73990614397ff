package models

import "time"

// Dashboard mirrors a Power BI dashboard. The primary key is the
// dashboard id assigned by Power BI, not a local sequence.
type Dashboard struct {
	ID              string `gorm:"primaryKey"`
	Name            string `gorm:"not null;index"`
	WorkspaceID     string `gorm:"not null;index"`
	WorkspaceName   string
	GroupID         *uint `gorm:"index"`
	BackgroundImage string
	PipelineID      string
	EmbedURL        string
	WebURL          string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relationships
	Group *Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
