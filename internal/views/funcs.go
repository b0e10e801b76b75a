package views

import (
	"html/template"
	"time"

	"github.com/yukikurage/portfolio-cms/internal/utils"
)

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     utils.FormatDate,
		"formatDateTime": utils.FormatDateTime,
		"day": func(t time.Time) string {
			return utils.FormatDate(&t)
		},
		"truncate":       utils.Truncate,
		"richText": func(s string) template.HTML {
			return template.HTML(utils.SanitizeHTML(s))
		},
		"upload": func(name string) string {
			if name == "" {
				return ""
			}
			return "/uploads/" + name
		},
		"year": func() int { return time.Now().Year() },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i + 1
			}
			return s
		},
		"eqID": func(a *uint64, b uint64) bool {
			return a != nil && *a == b
		},
	}
}
