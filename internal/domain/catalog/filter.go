package catalog

import "strings"

// PageSize is the number of items on one Visible Page.
const PageSize = 20

// Filter is the user-controlled view over a catalog: selected tags, search
// query and 1-based page number. The zero value selects nothing and is
// treated as page 1.
type Filter struct {
	// Tags is the set of selected category tags. An item must carry every
	// selected tag to be kept.
	Tags map[string]struct{}
	// Query is a lower-cased substring matched against item names.
	Query string
	Page  int
}

// NewFilter returns an empty filter on page 1.
func NewFilter() Filter {
	return Filter{Tags: map[string]struct{}{}, Page: 1}
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	tags := make(map[string]struct{}, len(f.Tags))
	for t := range f.Tags {
		tags[t] = struct{}{}
	}
	f.Tags = tags
	return f
}

// WithTag returns a copy of f with tag selected or deselected and the page
// reset to 1.
func (f Filter) WithTag(tag string, selected bool) Filter {
	out := f.Clone()
	if selected {
		out.Tags[tag] = struct{}{}
	} else {
		delete(out.Tags, tag)
	}
	out.Page = 1
	return out
}

// WithQuery returns a copy of f with the lower-cased query and the page reset
// to 1.
func (f Filter) WithQuery(q string) Filter {
	out := f.Clone()
	out.Query = strings.ToLower(q)
	out.Page = 1
	return out
}

// WithPage returns a copy of f on page n. No clamping is applied.
func (f Filter) WithPage(n int) Filter {
	out := f.Clone()
	out.Page = n
	return out
}

// Selected reports whether tag is part of the filter.
func (f Filter) Selected(tag string) bool {
	_, ok := f.Tags[tag]
	return ok
}

// SelectedTags returns the selected tags in sorted order.
func (f Filter) SelectedTags() []string {
	tags := make([]string, 0, len(f.Tags))
	for t := range f.Tags {
		tags = append(tags, t)
	}
	SortTags(tags)
	return tags
}

// Match reports whether item passes the tag and search predicates.
func (f Filter) Match(item Item) bool {
	for tag := range f.Tags {
		if !item.HasType(tag) {
			return false
		}
	}
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Name), f.Query)
}

// Page is one derived window over the filtered catalog.
type Page struct {
	Items []Item
	// Number is the requested page, which may lie past the end.
	Number int
	// Total is the count of items matching the filter across all pages.
	Total   int
	HasPrev bool
	HasNext bool
}

// VisiblePage filters items by f and returns the window
// [(page-1)*PageSize, page*PageSize). Requesting a page past the end yields
// an empty page, as does any page below 1.
//
// HasNext is true only when matching items remain after this window, so an
// exact multiple of PageSize does not produce a trailing empty page.
func VisiblePage(items []Item, f Filter) Page {
	n := f.Page
	var matched []Item
	for _, item := range items {
		if f.Match(item) {
			matched = append(matched, item)
		}
	}

	p := Page{
		Number:  n,
		Total:   len(matched),
		HasPrev: n > 1,
	}

	start := (n - 1) * PageSize
	if n < 1 || start >= len(matched) {
		p.Items = []Item{}
		return p
	}
	end := min(start+PageSize, len(matched))
	p.Items = matched[start:end]
	p.HasNext = end < len(matched)
	return p
}
