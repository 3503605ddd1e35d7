package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortTags sorts tags in place using English collation.
func SortTags(tags []string) {
	c := collate.New(language.English)
	sort.SliceStable(tags, func(i, j int) bool {
		return c.CompareString(tags[i], tags[j]) < 0
	})
}

// tagColors maps category tags to their display color: a CSS color name for
// the web front end and a hex value for the terminal.
var tagColors = map[string][2]string{
	"bug":      {"olive", "#808000"},
	"dark":     {"black", "#000000"},
	"dragon":   {"darkblue", "#00008B"},
	"electric": {"yellow", "#FFFF00"},
	"fairy":    {"lightpink", "#FFB6C1"},
	"fighting": {"brown", "#A52A2A"},
	"fire":     {"red", "#FF0000"},
	"flying":   {"skyblue", "#87CEEB"},
	"ghost":    {"indigo", "#4B0082"},
	"grass":    {"green", "#008000"},
	"ground":   {"saddlebrown", "#8B4513"},
	"ice":      {"lightblue", "#ADD8E6"},
	"normal":   {"gray", "#808080"},
	"poison":   {"purple", "#800080"},
	"psychic":  {"pink", "#FFC0CB"},
	"rock":     {"darkgray", "#A9A9A9"},
	"steel":    {"silver", "#C0C0C0"},
	"stellar":  {"gold", "#FFD700"},
	"unknown":  {"dimgray", "#696969"},
	"water":    {"blue", "#0000FF"},
}

// TagColor returns the CSS color name for tag, or "" for tags outside the
// known vocabulary.
func TagColor(tag string) string {
	return tagColors[tag][0]
}

// TagHexColor returns the hex color for tag, falling back to the "unknown"
// color.
func TagHexColor(tag string) string {
	if c, ok := tagColors[tag]; ok {
		return c[1]
	}
	return tagColors["unknown"][1]
}
