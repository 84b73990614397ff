package models

import "time"

type Group struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"uniqueIndex;not null"`
	Description     string
	BackgroundImage string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relationships
	Memberships []Membership `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Dashboards  []Dashboard  `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
