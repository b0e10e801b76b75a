package models

import "time"

type Like struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_likes_user_project" json:"user_id"`
	ProjectID uint64    `gorm:"not null;uniqueIndex:idx_likes_user_project;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}
