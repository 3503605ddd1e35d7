// Package navigator maps paths to views and performs in-app navigation over
// an injected History.
package navigator

import (
	"strconv"
	"strings"
	"sync"
)

// View identifies the view a route mounts.
type View int

const (
	// ViewNotFound is returned for paths outside the route table.
	ViewNotFound View = iota
	// ViewList mounts the List View.
	ViewList
	// ViewDetail mounts the Detail View.
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	default:
		return "not-found"
	}
}

// Path prefixes of the route table.
const (
	RootPath   = "/"
	ItemPrefix = "/item/"
)

// RouteDef is one entry of the static route table.
type RouteDef struct {
	// Pattern uses net/http ServeMux syntax.
	Pattern string
	View    View
}

// Routes returns the static route table.
func Routes() []RouteDef {
	return []RouteDef{
		{Pattern: "/{$}", View: ViewList},
		{Pattern: ItemPrefix + "{id}", View: ViewDetail},
	}
}

// Route is the result of matching a path.
type Route struct {
	View View
	Path string
	// ID is the detail identifier; 0 when the segment is not an integer.
	ID int
}

// Match resolves path against the route table.
func Match(path string) Route {
	if path == "" || path == RootPath {
		return Route{View: ViewList, Path: RootPath}
	}
	if rest, ok := strings.CutPrefix(path, ItemPrefix); ok && rest != "" && !strings.Contains(rest, "/") {
		id, err := strconv.Atoi(rest)
		if err != nil {
			id = 0
		}
		return Route{View: ViewDetail, Path: path, ID: id}
	}
	return Route{View: ViewNotFound, Path: path}
}

// ItemPath returns the detail path of item id.
func ItemPath(id int) string {
	return ItemPrefix + strconv.Itoa(id)
}

// History stores the navigation path. Implementations need not be safe for
// concurrent use; the Navigator serializes access.
type History interface {
	// Push appends path and makes it current.
	Push(path string)
	// Back moves to the previous entry. It reports false on the first entry.
	Back() bool
	// Path returns the current path.
	Path() string
}

// Listener is notified with the new route after every navigation.
type Listener func(Route)

// Navigator performs in-app navigation: it pushes onto History and then
// notifies listeners as a browser would on a history change. It never
// reloads anything.
type Navigator struct {
	mu        sync.Mutex
	history   History
	listeners []Listener
}

// New creates a Navigator over history.
func New(history History) *Navigator {
	return &Navigator{history: history}
}

// Listen registers an outlet listener.
func (n *Navigator) Listen(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Current returns the route of the current path.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Match(n.history.Path())
}

// Navigate pushes path and notifies listeners.
func (n *Navigator) Navigate(path string) Route {
	n.mu.Lock()
	n.history.Push(path)
	r, listeners := Match(n.history.Path()), n.listeners
	n.mu.Unlock()

	notify(listeners, r)
	return r
}

// Back returns to the previous history entry and notifies listeners. It
// reports false when there is no previous entry.
func (n *Navigator) Back() (Route, bool) {
	n.mu.Lock()
	ok := n.history.Back()
	r, listeners := Match(n.history.Path()), n.listeners
	n.mu.Unlock()

	if ok {
		notify(listeners, r)
	}
	return r, ok
}

func notify(listeners []Listener, r Route) {
	for _, l := range listeners {
		l(r)
	}
}
