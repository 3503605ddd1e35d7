package catalog

import "context"

// Ref is a named link to a remote resource.
type Ref struct {
	Name string
	URL  string
}

// AbilityRef links an item to an ability resource that still needs resolving.
type AbilityRef = Ref

// Record is an item detail as delivered by the source, before its ability
// references are resolved.
type Record struct {
	Item
	AbilityRefs []AbilityRef
}

// DescriptionEntry is one localized ability description.
type DescriptionEntry struct {
	Text     string
	Version  string
	Language string
}

// Source is the read-only remote data source.
type Source interface {
	// ListTypes returns the category vocabulary as delivered by the source.
	ListTypes(ctx context.Context) ([]string, error)
	// ListItems returns the item listing found at url.
	ListItems(ctx context.Context, url string) ([]Ref, error)
	// GetItem fetches one item detail record from url.
	GetItem(ctx context.Context, url string) (*Record, error)
	// GetItemByID fetches one item detail record by identifier.
	GetItemByID(ctx context.Context, id int) (*Record, error)
	// GetAbility fetches the description entries of the ability at url.
	GetAbility(ctx context.Context, url string) ([]DescriptionEntry, error)
}
