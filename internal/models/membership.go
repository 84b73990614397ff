package models

import "time"

type Membership struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_group"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_user_group"`
	JoinedAt time.Time `gorm:"not null"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Group Group `gorm:"foreignKey:GroupID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
