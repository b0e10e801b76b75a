package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
}
