package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Content     string    `gorm:"type:text" json:"content,omitempty"`
	ImageURL    string    `gorm:"type:varchar(300)" json:"image_url,omitempty"`
	VideoURL    string    `gorm:"type:varchar(300)" json:"video_url,omitempty"`
	ProjectURL  string    `gorm:"type:varchar(300)" json:"project_url,omitempty"`
	GithubURL   string    `gorm:"type:varchar(300)" json:"github_url,omitempty"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"is_featured"`
	CategoryID  *uint64   `gorm:"index" json:"category_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed by sub-select, never written.
	LikesCount    int64 `gorm:"->;-:migration" json:"likes_count"`
	CommentsCount int64 `gorm:"->;-:migration" json:"comments_count"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:project_tags" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TagNames returns the tag names in their loaded order.
func (p Project) TagNames() []string {
	names := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		names[i] = t.Name
	}
	return names
}
