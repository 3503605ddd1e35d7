package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

type categoryOption struct {
	Name     string
	Selected bool
}

type listPageData struct {
	Title      string
	Headline   string
	Categories []categoryOption
	Filter     catalog.Filter
	Page       catalog.Page
	Loading    bool
	PrevURL    string
	NextURL    string
}

type detailPageData struct {
	Title string
	// Item is nil while the detail is loading or after a failed load.
	Item *catalog.Item
}

// ListPage renders the filter panel and one page of item cards. Until the
// catalog has loaded the loading indicator is shown instead of the grid.
func (h *Handler) ListPage(w http.ResponseWriter, r *http.Request) {
	s := h.list.State()
	f := FilterFromQuery(r.URL.Query())

	data := listPageData{
		Title:    h.headline,
		Headline: h.headline,
		Filter:   f,
		Page:     catalog.VisiblePage(s.Catalog, f),
		Loading:  !s.Loaded,
		PrevURL:  listURL(f.WithPage(f.Page - 1)),
		NextURL:  listURL(f.WithPage(f.Page + 1)),
	}
	for _, c := range s.Categories {
		data.Categories = append(data.Categories, categoryOption{Name: c, Selected: f.Selected(c)})
	}
	h.render(w, r, h.listPage, "list.html", data)
}

// DetailPage renders one item. Failures are logged and rendered as the
// loading state.
func (h *Handler) DetailPage(w http.ResponseWriter, r *http.Request) {
	id := itemID(r)
	data := detailPageData{Title: h.headline}

	item, err := h.details.Load(r.Context(), id)
	if err != nil {
		zctx.From(r.Context()).Error("Failed to load item detail", zap.Int("id", id), zap.Error(err))
	} else {
		data.Item = item
		data.Title = item.Name + " · " + h.headline
	}
	h.render(w, r, h.detailPage, "detail.html", data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		zctx.From(r.Context()).Error("Render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
