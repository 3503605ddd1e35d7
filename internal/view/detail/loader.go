// Package detail implements the Detail View: one item with its abilities
// resolved to human-readable descriptions.
package detail

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

// ParseID returns the trailing path segment as an item identifier, or 0 when
// it is not an integer.
func ParseID(path string) int {
	path = strings.TrimRight(path, "/")
	seg := path[strings.LastIndexByte(path, '/')+1:]
	id, err := strconv.Atoi(seg)
	if err != nil {
		return 0
	}
	return id
}

// SelectDescription picks the description of an ability: the first entry in
// language, or the first entry at all when language is empty. Without a
// matching entry the placeholders are returned.
func SelectDescription(entries []catalog.DescriptionEntry, language string) (text, version string) {
	for _, e := range entries {
		if language != "" && e.Language != language {
			continue
		}
		return normalize(e.Text), e.Version
	}
	return catalog.NoDescription, catalog.UnknownVersion
}

// normalize collapses the line and page breaks PokeAPI embeds in flavor text.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Loader fetches fully resolved item details.
type Loader struct {
	source      catalog.Source
	language    string
	concurrency int
}

// LoaderConfig controls description selection and fetch concurrency.
type LoaderConfig struct {
	// Language selects the description language. Empty picks the first entry.
	Language string
	// FetchConcurrency bounds ability fetches. Zero means unbounded.
	FetchConcurrency int
}

// NewLoader creates a Loader backed by source.
func NewLoader(source catalog.Source, cfg LoaderConfig) *Loader {
	return &Loader{
		source:      source,
		language:    cfg.Language,
		concurrency: cfg.FetchConcurrency,
	}
}

// Load fetches item id and resolves all of its abilities concurrently. A
// single failing fetch fails the whole load.
func (l *Loader) Load(ctx context.Context, id int) (*catalog.Item, error) {
	rec, err := l.source.GetItemByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get item %d", id)
	}

	abilities := make([]catalog.Ability, len(rec.AbilityRefs))
	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, ref := range rec.AbilityRefs {
		g.Go(func() error {
			entries, err := l.source.GetAbility(gctx, ref.URL)
			if err != nil {
				return errors.Wrapf(err, "get ability %q", ref.Name)
			}
			text, version := SelectDescription(entries, l.language)
			abilities[i] = catalog.Ability{
				Name:        ref.Name,
				Description: text,
				Version:     version,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	item := rec.Item
	item.Abilities = abilities
	return &item, nil
}
