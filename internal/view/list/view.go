// Package list implements the catalog List View: the category vocabulary,
// the Catalog Snapshot and the Filter State, published as immutable State
// snapshots.
package list

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

// State is an immutable snapshot of the List View. Callers must not modify
// the slices or the filter tag set.
type State struct {
	// Categories is the sorted category vocabulary; empty when it could not be loaded.
	Categories []string
	Catalog    []catalog.Item
	Filter     catalog.Filter
	Page       catalog.Page
	Loading    bool
	// Loaded is true once a catalog load has succeeded.
	Loaded bool
}

// Config controls List View behaviour.
type Config struct {
	// FetchConcurrency bounds the per-item detail fetches of a catalog load.
	// Zero means unbounded.
	FetchConcurrency int
}

// View is the List View. All methods are safe for concurrent use.
type View struct {
	source      catalog.Source
	lg          *zap.Logger
	concurrency int

	mu     sync.Mutex
	state  State
	subs   map[int]chan State
	nextID int
}

// New creates an empty List View on page 1.
func New(source catalog.Source, lg *zap.Logger, cfg Config) *View {
	v := &View{
		source:      source,
		lg:          lg,
		concurrency: cfg.FetchConcurrency,
		subs:        make(map[int]chan State),
	}
	v.state.Filter = catalog.NewFilter()
	v.state.Page = catalog.VisiblePage(nil, v.state.Filter)
	return v
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Subscribe returns a channel receiving a snapshot after every mutation.
// Slow readers only see the latest snapshot. The returned function cancels
// the subscription and closes the channel.
func (v *View) Subscribe() (<-chan State, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	ch := make(chan State, 1)
	v.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			close(ch)
		})
	}
}

// Activate loads the category vocabulary and then the catalog at sourceURL.
func (v *View) Activate(ctx context.Context, sourceURL string) error {
	v.LoadCategories(ctx)
	return v.LoadCatalog(ctx, sourceURL)
}

// LoadCategories fetches and sorts the category vocabulary. Failures are
// logged and leave the vocabulary unchanged.
func (v *View) LoadCategories(ctx context.Context) {
	types, err := v.source.ListTypes(ctx)
	if err != nil {
		v.lg.Error("Failed to load categories", zap.Error(err))
		return
	}
	types = slices.Clone(types)
	catalog.SortTags(types)

	v.update(func(s *State) {
		s.Categories = types
	})
}

// LoadCatalog fetches the listing at sourceURL and the full detail of every
// listed item. Any failure aborts the whole load: the previous snapshot is
// kept and the error is logged and returned.
func (v *View) LoadCatalog(ctx context.Context, sourceURL string) error {
	v.update(func(s *State) { s.Loading = true })
	defer v.update(func(s *State) { s.Loading = false })

	items, err := v.fetchCatalog(ctx, sourceURL)
	if err != nil {
		v.lg.Error("Failed to load catalog", zap.String("url", sourceURL), zap.Error(err))
		return err
	}

	v.lg.Info("Catalog loaded", zap.Int("items", len(items)))
	v.update(func(s *State) {
		s.Catalog = items
		s.Loaded = true
	})
	return nil
}

func (v *View) fetchCatalog(ctx context.Context, sourceURL string) ([]catalog.Item, error) {
	refs, err := v.source.ListItems(ctx, sourceURL)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}

	items := make([]catalog.Item, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	if v.concurrency > 0 {
		g.SetLimit(v.concurrency)
	}
	for i, ref := range refs {
		g.Go(func() error {
			rec, err := v.source.GetItem(gctx, ref.URL)
			if err != nil {
				return errors.Wrapf(err, "get item %q", ref.Name)
			}
			items[i] = rec.Item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetCategoryFilter selects or deselects tag and returns to page 1.
func (v *View) SetCategoryFilter(tag string, selected bool) {
	v.update(func(s *State) {
		s.Filter = s.Filter.WithTag(tag, selected)
	})
}

// ToggleCategory flips the selection of tag and returns to page 1.
func (v *View) ToggleCategory(tag string) {
	v.update(func(s *State) {
		s.Filter = s.Filter.WithTag(tag, !s.Filter.Selected(tag))
	})
}

// SetSearchQuery stores the lower-cased query and returns to page 1.
func (v *View) SetSearchQuery(text string) {
	v.update(func(s *State) {
		s.Filter = s.Filter.WithQuery(text)
	})
}

// GoToPage moves to page n. Pages past the end are empty, not errors.
func (v *View) GoToPage(n int) {
	v.update(func(s *State) {
		s.Filter = s.Filter.WithPage(n)
	})
}

// ClearFilters drops every selected tag and the search query.
func (v *View) ClearFilters() {
	v.update(func(s *State) {
		s.Filter = catalog.NewFilter()
	})
}

// update applies fn to a copy of the state, recomputes the visible page and
// publishes the result.
func (v *View) update(fn func(s *State)) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := v.state
	fn(&next)
	next.Page = catalog.VisiblePage(next.Catalog, next.Filter)
	v.state = next

	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}
