package models

type Category struct {
	ID          uint64 `gorm:"primarykey" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:varchar(200)" json:"description,omitempty"`
	Color       string `gorm:"type:varchar(7);not null;default:'#1e40af'" json:"color"`

	// Relations
	Projects []Project `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}
