package models

// ProjectTag is the explicit join row between a project and a tag.
type ProjectTag struct {
	ProjectID uint64 `gorm:"primarykey" json:"project_id"`
	TagID     uint64 `gorm:"primarykey" json:"tag_id"`
}
