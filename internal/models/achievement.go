package models

import "time"

type Achievement struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Title          string     `gorm:"type:varchar(200);not null" json:"title"`
	Description    string     `gorm:"type:text;not null" json:"description"`
	ImageURL       string     `gorm:"type:varchar(300)" json:"image_url,omitempty"`
	CertificateURL string     `gorm:"type:varchar(300)" json:"certificate_url,omitempty"`
	Issuer         string     `gorm:"type:varchar(100)" json:"issuer,omitempty"`
	DateAchieved   *time.Time `gorm:"type:date" json:"date_achieved,omitempty"`
	IsPublished    bool       `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
