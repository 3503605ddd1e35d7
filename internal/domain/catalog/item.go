package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the remote source has no item for an identifier.
var ErrNotFound = errors.New("item not found")

// Placeholders used when an ability carries no description entry.
const (
	NoDescription  = "Description not available"
	UnknownVersion = "unknown"
)

// Item is a single creature as returned by the remote source. Items are
// immutable once fetched.
type Item struct {
	ID    int
	Name  string
	Image string
	// Types holds category tags in the order the source returned them.
	Types []string

	Measurements *Measurements
	Abilities    []Ability
}

// HasType reports whether the item carries the given category tag.
func (i Item) HasType(tag string) bool {
	for _, t := range i.Types {
		if t == tag {
			return true
		}
	}
	return false
}

// Measurements holds raw source units: height in decimetres, weight in
// hectograms.
type Measurements struct {
	Height int
	Weight int
}

// HeightMeters returns the height in metres.
func (m Measurements) HeightMeters() decimal.Decimal {
	return decimal.NewFromInt(int64(m.Height)).Shift(-1)
}

// WeightKilograms returns the weight in kilograms.
func (m Measurements) WeightKilograms() decimal.Decimal {
	return decimal.NewFromInt(int64(m.Weight)).Shift(-1)
}

// Ability is a trait with its resolved description.
type Ability struct {
	Name        string
	Description string
	// Version names the game version group the description comes from.
	Version string
}
