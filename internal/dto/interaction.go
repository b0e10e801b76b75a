package dto

import (
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/utils"
)

// LikeResponse is returned by the like toggle.
type LikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// CommentDTO is a comment as rendered by the project page script.
type CommentDTO struct {
	ID        uint64 `json:"id"`
	Content   string `json:"content"`
	UserName  string `json:"user_name"`
	UserImage string `json:"user_image"`
	CreatedAt string `json:"created_at"`
}

// CommentResponse wraps a newly posted comment.
type CommentResponse struct {
	Success bool       `json:"success"`
	Comment CommentDTO `json:"comment"`
}

// ToCommentDTO converts a comment with its author loaded. The content is
// returned as stored; the client inserts it as text.
func ToCommentDTO(comment *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		UserName:  comment.User.Name,
		UserImage: comment.User.ProfileImage,
		CreatedAt: utils.FormatDateTime(comment.CreatedAt),
	}
}
