package models

import "time"

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	BusinessArea   string `gorm:"index"`
	ProfilePicture string
	IsActive       bool `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relationships
	Memberships []Membership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
