// Package views renders the server-side HTML pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

var missingPage = template.Must(template.New("missing").Parse(`template {{.}} not found`))

// Renderer holds one template set per page, each made of the layout, the
// shared partials and the page itself. It implements gin's HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/pages and templates/admin.
// Pages are named by their path without extension, e.g. "index" or
// "admin/dashboard".
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, dir := range []string{"templates/pages", "templates/admin"} {
		entries, err := fs.ReadDir(templateFS, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
				continue
			}

			file := path.Join(dir, entry.Name())
			name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/pages/"), ".html")
			name = strings.TrimPrefix(name, "templates/")

			tmpl, err := template.New(path.Base(layoutFile)).
				Funcs(Funcs()).
				ParseFS(templateFS, layoutFile, partialsFile, file)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", file, err)
			}
			r.pages[name] = tmpl
		}
	}

	return r, nil
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		return render.HTML{Template: missingPage, Name: "missing", Data: name}
	}
	return render.HTML{Template: tmpl, Name: path.Base(layoutFile), Data: data}
}

// Has reports whether a page named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
