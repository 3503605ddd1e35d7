// Package handler serves the List View and Detail View over HTTP, as HTML
// pages and as a JSON API.
package handler

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/xenking/pokedex/internal/domain/catalog"
	"github.com/xenking/pokedex/internal/navigator"
	"github.com/xenking/pokedex/internal/view/detail"
	"github.com/xenking/pokedex/internal/view/list"
)

//go:embed templates/*.html
var templateFS embed.FS

// ListSource exposes the current List View snapshot.
type ListSource interface {
	State() list.State
}

// DetailLoader loads one fully resolved item.
type DetailLoader interface {
	Load(ctx context.Context, id int) (*catalog.Item, error)
}

// Config holds non-dependency handler settings.
type Config struct {
	// Headline is the title of the list page.
	Headline string
}

// Handler serves the viewer pages and API.
type Handler struct {
	list     ListSource
	details  DetailLoader
	headline string

	listPage   *template.Template
	detailPage *template.Template
}

// New creates a Handler.
func New(cfg Config, lists ListSource, details DetailLoader) (*Handler, error) {
	if cfg.Headline == "" {
		cfg.Headline = "Pokédex"
	}
	funcs := template.FuncMap{
		"tagColor": catalog.TagColor,
		"itemPath": navigator.ItemPath,
	}
	parse := func(page string) (*template.Template, error) {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", page)
		}
		return t, nil
	}

	listPage, err := parse("list.html")
	if err != nil {
		return nil, err
	}
	detailPage, err := parse("detail.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		list:       lists,
		details:    details,
		headline:   cfg.Headline,
		listPage:   listPage,
		detailPage: detailPage,
	}, nil
}

// Register mounts the page routes from the navigator route table and the
// JSON API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	for _, r := range navigator.Routes() {
		switch r.View {
		case navigator.ViewList:
			mux.HandleFunc("GET "+r.Pattern, h.ListPage)
		case navigator.ViewDetail:
			mux.HandleFunc("GET "+r.Pattern, h.DetailPage)
		}
	}
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/items", h.ListItems)
	mux.HandleFunc("GET /api/items/{id}", h.GetItem)
}

// FilterFromQuery reads Filter State from the "type", "q" and "page" query
// parameters. A missing or malformed page selects page 1.
func FilterFromQuery(q url.Values) catalog.Filter {
	f := catalog.NewFilter()
	for _, tag := range q["type"] {
		if tag != "" {
			f = f.WithTag(tag, true)
		}
	}
	f = f.WithQuery(q.Get("q"))
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		f = f.WithPage(p)
	}
	return f
}

// QueryFromFilter is the inverse of FilterFromQuery.
func QueryFromFilter(f catalog.Filter) url.Values {
	q := url.Values{}
	for _, tag := range f.SelectedTags() {
		q.Add("type", tag)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Page != 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

func listURL(f catalog.Filter) string {
	q := QueryFromFilter(f)
	if len(q) == 0 {
		return navigator.RootPath
	}
	return navigator.RootPath + "?" + q.Encode()
}

// itemID extracts the detail identifier; malformed values yield 0.
func itemID(r *http.Request) int {
	return detail.ParseID(r.URL.Path)
}
