package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection/internal/model"
	"github.com/iliyamo/movie-collection/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index.html", "user_movies.html", "404.html", "error.html"}

// pageData is the single view model shared by all templates.
type pageData struct {
	Flash   *utils.Flash
	Users   []*model.User
	User    *model.User
	Movies  []*model.Movie
	Status  int
	Message string
}

func (h *CollectionHandler) page(c echo.Context) *pageData {
	return &pageData{Flash: h.popFlash(c)}
}

var templateFuncs = template.FuncMap{
	"str": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"year": func(p *int) string {
		if p == nil || *p == 0 {
			return "n/a"
		}
		return strconv.Itoa(*p)
	},
	"rating": func(p *float64) string {
		if p == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f", *p)
	},
}

// Renderer implements echo.Renderer over the embedded templates.  Each page
// is parsed together with base.html so they can share the layout.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template once.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, name, data)
}
