package models

type Tag struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}
