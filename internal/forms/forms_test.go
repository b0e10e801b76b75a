package forms

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postForm(values url.Values) *gin.Context {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestBind_RegisterForm(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		fields []string
	}{
		{
			name: "valid",
			values: url.Values{
				"name": {"  Ada Lovelace "}, "email": {"ada@example.com"},
				"password": {"secret1"}, "password2": {"secret1"},
			},
		},
		{
			name: "short password and mismatch",
			values: url.Values{
				"name": {"Ada"}, "email": {"ada@example.com"},
				"password": {"abc"}, "password2": {"abd"},
			},
			fields: []string{"password", "password2"},
		},
		{
			name: "password longer than bcrypt accepts",
			values: url.Values{
				"name": {"Ada"}, "email": {"ada@example.com"},
				"password": {strings.Repeat("a", 80)}, "password2": {strings.Repeat("a", 80)},
			},
			fields: []string{"password"},
		},
		{
			name:   "missing everything",
			values: url.Values{"name": {"   "}},
			fields: []string{"name", "email", "password", "password2"},
		},
		{
			name: "bad email",
			values: url.Values{
				"name": {"Ada"}, "email": {"not-an-email"},
				"password": {"secret1"}, "password2": {"secret1"},
			},
			fields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form RegisterForm
			errs, err := Bind(postForm(tt.values), &form)
			require.NoError(t, err)

			if len(tt.fields) == 0 {
				assert.False(t, errs.Any(), errs)
				assert.Equal(t, "Ada Lovelace", form.Name)
				return
			}
			for _, f := range tt.fields {
				assert.True(t, errs.Has(f), "expected error on %s: %v", f, errs)
			}
		})
	}
}

func TestBind_CommentLength(t *testing.T) {
	var form CommentForm
	errs, err := Bind(postForm(url.Values{"content": {strings.Repeat("a", 1001)}}), &form)
	require.NoError(t, err)
	assert.Equal(t, "Field cannot be longer than 1000 characters.", errs.First("content"))

	form = CommentForm{}
	errs, err = Bind(postForm(url.Values{"content": {" \n "}}), &form)
	require.NoError(t, err)
	assert.Equal(t, "This field is required.", errs.First("content"))
}

func TestBind_ProjectForm(t *testing.T) {
	var form ProjectForm
	errs, err := Bind(postForm(url.Values{
		"title":        {"Site"},
		"description":  {"A site"},
		"category_id":  {"0"},
		"project_url":  {"not a url"},
		"is_published": {"true"},
		"tags":         {"React, Go, React"},
	}), &form)
	require.NoError(t, err)

	assert.True(t, errs.Has("project_url"))
	assert.False(t, errs.Has("github_url"))
	assert.Nil(t, form.Category())
	assert.True(t, form.IsPublished)
	assert.False(t, form.IsFeatured)
}

func TestBind_AchievementDate(t *testing.T) {
	var form AchievementForm
	errs, err := Bind(postForm(url.Values{
		"title": {"Award"}, "description": {"Won"}, "date_achieved": {"31/12/2024"},
	}), &form)
	require.NoError(t, err)
	assert.Equal(t, "Invalid date.", errs.First("date_achieved"))
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"React", "Go"}, ParseTags("React, Go, React"))
	assert.Equal(t, []string{"a", "b"}, ParseTags(" a ,, b ,a,"))
	assert.Empty(t, ParseTags("  , ,"))
}

func TestCheckTags(t *testing.T) {
	errs := Errors{}
	CheckTags([]string{"Go", strings.Repeat("é", 30)}, errs)
	assert.False(t, errs.Has("tags"))

	CheckTags([]string{"Go", strings.Repeat("x", 31)}, errs)
	assert.Contains(t, errs.First("tags"), "longer than 30 characters")
}

func TestFile_RejectsDisallowedExtension(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "script.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	part, err = mw.CreateFormFile("video", "clip.MP4")
	require.NoError(t, err)
	_, err = part.Write([]byte("video"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	errs := Errors{}
	assert.Nil(t, File(c, "image", errs, "Images only!", ProjectImageExtensions...))
	assert.Equal(t, "Images only!", errs.First("image"))

	video := File(c, "video", errs, "Videos only!", ProjectVideoExtensions...)
	require.NotNil(t, video)
	assert.Equal(t, "clip.MP4", video.Filename)

	assert.Nil(t, File(c, "missing", errs, "x"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}
