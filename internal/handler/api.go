package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
	"github.com/xenking/pokedex/pkg/httpmiddleware"
)

// ListCategories returns the sorted category vocabulary.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	s := h.list.State()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, c := range s.Categories {
				e.Str(c)
			}
		})
	})
}

// ListItems returns the Visible Page for the Filter State in the query.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	s := h.list.State()
	if !s.Loaded {
		httpmiddleware.WriteError(w, http.StatusServiceUnavailable, "catalog is loading")
		return
	}
	p := catalog.VisiblePage(s.Catalog, FilterFromQuery(r.URL.Query()))
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePage(e, p) })
}

// GetItem returns one item with resolved ability descriptions.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := itemID(r)
	if id <= 0 {
		httpmiddleware.WriteError(w, http.StatusNotFound, "item not found")
		return
	}
	item, err := h.details.Load(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		httpmiddleware.WriteError(w, http.StatusNotFound, "item not found")
		return
	case err != nil:
		zctx.From(r.Context()).Error("Failed to load item", zap.Int("id", id), zap.Error(err))
		httpmiddleware.WriteError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeItem(e, *item) })
}

func writeJSON(w http.ResponseWriter, code int, fn func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}

func encodePage(e *jx.Encoder, p catalog.Page) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("page", func(e *jx.Encoder) { e.Int(p.Number) })
		e.Field("total", func(e *jx.Encoder) { e.Int(p.Total) })
		e.Field("has_prev", func(e *jx.Encoder) { e.Bool(p.HasPrev) })
		e.Field("has_next", func(e *jx.Encoder) { e.Bool(p.HasNext) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range p.Items {
					encodeItem(e, it)
				}
			})
		})
	})
}

func encodeItem(e *jx.Encoder, it catalog.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(it.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
		e.Field("image", func(e *jx.Encoder) { e.Str(it.Image) })
		e.Field("types", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, t := range it.Types {
					e.Str(t)
				}
			})
		})
		if m := it.Measurements; m != nil {
			e.Field("height_m", func(e *jx.Encoder) { e.Num(jx.Num(m.HeightMeters().String())) })
			e.Field("weight_kg", func(e *jx.Encoder) { e.Num(jx.Num(m.WeightKilograms().String())) })
		}
		if it.Abilities != nil {
			e.Field("abilities", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, a := range it.Abilities {
						e.Obj(func(e *jx.Encoder) {
							e.Field("name", func(e *jx.Encoder) { e.Str(a.Name) })
							e.Field("description", func(e *jx.Encoder) { e.Str(a.Description) })
							e.Field("version", func(e *jx.Encoder) { e.Str(a.Version) })
						})
					}
				})
			})
		}
	})
}
