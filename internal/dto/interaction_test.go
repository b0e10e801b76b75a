package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/portfolio-cms/internal/models"
)

func TestToCommentDTO(t *testing.T) {
	comment := &models.Comment{
		ID:        7,
		Content:   "I don't think a & b < c",
		CreatedAt: time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
		User:      models.User{Name: "Ada", ProfileImage: "ada.jpg"},
	}

	got := ToCommentDTO(comment)

	assert.Equal(t, uint64(7), got.ID)
	assert.Equal(t, "I don't think a & b < c", got.Content)
	assert.Equal(t, "Ada", got.UserName)
	assert.Equal(t, "ada.jpg", got.UserImage)
	assert.Equal(t, "01/05/2024 at 14:30", got.CreatedAt)
}

func TestCommentDTO_AlwaysCarriesUserImage(t *testing.T) {
	comment := &models.Comment{ID: 1, Content: "hi", User: models.User{Name: "Bo"}}

	body, err := json.Marshal(ToCommentDTO(comment))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Contains(t, fields, "user_image")
	assert.Equal(t, "", fields["user_image"])
}
