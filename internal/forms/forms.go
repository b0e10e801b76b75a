// Package forms binds and validates the HTML forms of the site.
package forms

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/storage"
)

const multipartMemory = 32 << 20

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Errors maps a form field name to its validation messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field has errors.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field.
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Any reports whether any field has errors.
func (e Errors) Any() bool {
	return len(e) > 0
}

type normalizer interface {
	Normalize()
}

// Bind fills form from the request body, trims it and validates it. Field
// errors are returned as Errors, which is never nil; the error result is
// reserved for malformed requests.
func Bind(c *gin.Context, form any) (Errors, error) {
	req := c.Request
	if err := req.ParseForm(); err != nil {
		return nil, err
	}
	if err := req.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	if err := binding.MapFormWithTag(form, req.Form, "form"); err != nil {
		return nil, err
	}
	if n, ok := form.(normalizer); ok {
		n.Normalize()
	}

	errs := Errors{}
	if err := binding.Validator.ValidateStruct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, err
		}
		for _, fe := range ve {
			errs.Add(fe.Field(), message(fe))
		}
	}
	return errs, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "eqfield":
		return "Passwords must match."
	case "url":
		return "Invalid URL."
	case "hexcolor":
		return "Invalid color."
	case "datetime":
		return "Invalid date."
	default:
		return "Invalid value."
	}
}

// File returns the file uploaded as field, or nil when none was sent. A file
// whose extension is not allowed is recorded in errs and nil is returned.
func File(c *gin.Context, field string, errs Errors, message string, allowed ...string) *multipart.FileHeader {
	header, err := c.FormFile(field)
	if err != nil || header == nil || header.Filename == "" {
		return nil
	}
	if !storage.HasExtension(header.Filename, allowed...) {
		errs.Add(field, message)
		return nil
	}
	return header
}

// ParseTags splits a comma separated tag list, trimming names, dropping
// empty ones and keeping the first occurrence of each.
func ParseTags(raw string) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// CheckTags adds an error on the tags field for the first name too long to store.
func CheckTags(tags []string, errs Errors) {
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > constants.TagMaxLength {
			errs.Add("tags", fmt.Sprintf("Tag %q is longer than %d characters.", tag, constants.TagMaxLength))
			return
		}
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
