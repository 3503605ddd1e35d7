package detail

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

// State is an immutable snapshot of the Detail View.
type State struct {
	ID int
	// Item is nil while loading and after a failed load.
	Item    *catalog.Item
	Loading bool
}

// View is the stateful Detail View used by interactive front ends. A failed
// load leaves it loading; there is no retry.
type View struct {
	loader *Loader
	lg     *zap.Logger

	mu    sync.Mutex
	state State
	subs  []func(State)
}

// NewView creates a Detail View.
func NewView(loader *Loader, lg *zap.Logger) *View {
	return &View{loader: loader, lg: lg}
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// OnChange registers fn to be called with every new snapshot. fn runs with
// the view unlocked and must not block.
func (v *View) OnChange(fn func(State)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subs = append(v.subs, fn)
}

// Load shows item id. In-flight loads are not cancelled, but a load that
// completes after a newer Load call is discarded: the state only ever holds
// the item of the latest requested ID.
func (v *View) Load(ctx context.Context, id int) {
	v.set(func(s *State) bool {
		s.ID = id
		s.Item = nil
		s.Loading = true
		return true
	})

	item, err := v.loader.Load(ctx, id)
	if err != nil {
		v.lg.Error("Failed to load item detail", zap.Int("id", id), zap.Error(err))
		return
	}
	v.set(func(s *State) bool {
		if s.ID != id {
			v.lg.Debug("Dropping superseded item detail", zap.Int("id", id), zap.Int("current", s.ID))
			return false
		}
		s.Item = item
		s.Loading = false
		return true
	})
}

// set applies fn to a copy of the state and publishes it unless fn reports
// no change.
func (v *View) set(fn func(s *State) bool) {
	v.mu.Lock()
	next := v.state
	if !fn(&next) {
		v.mu.Unlock()
		return
	}
	v.state = next
	subs := v.subs
	v.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}
