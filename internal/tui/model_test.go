package tui

import (
	"context"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
	"github.com/xenking/pokedex/internal/navigator"
	"github.com/xenking/pokedex/internal/view/detail"
	"github.com/xenking/pokedex/internal/view/list"
)

type fakeSource struct {
	refs      []catalog.Ref
	records   map[string]*catalog.Record
	abilities map[string][]catalog.DescriptionEntry
	failItem  int
}

func (f *fakeSource) ListTypes(context.Context) ([]string, error) {
	return []string{"water", "poison", "grass", "fire"}, nil
}

func (f *fakeSource) ListItems(context.Context, string) ([]catalog.Ref, error) {
	return f.refs, nil
}

func (f *fakeSource) GetItem(_ context.Context, url string) (*catalog.Record, error) {
	rec, ok := f.records[url]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return rec, nil
}

func (f *fakeSource) GetItemByID(ctx context.Context, id int) (*catalog.Record, error) {
	if id == f.failItem {
		return nil, errors.New("connection reset")
	}
	return f.GetItem(ctx, "item/"+strconv.Itoa(id))
}

func (f *fakeSource) GetAbility(_ context.Context, url string) ([]catalog.DescriptionEntry, error) {
	return f.abilities[url], nil
}

// newFakeSource serves 25 items named mon1..mon25. Even ids are grass and
// poison, odd ids are fire.
func newFakeSource() *fakeSource {
	f := &fakeSource{
		records: map[string]*catalog.Record{},
		abilities: map[string][]catalog.DescriptionEntry{
			"ability/blaze": {
				{Text: "Feuer", Version: "x-y", Language: "de"},
				{Text: "Powers up\nFire-type moves.", Version: "x-y", Language: "en"},
			},
		},
		failItem: 99,
	}
	for i := 1; i <= 25; i++ {
		item := catalog.Item{ID: i, Name: "mon" + strconv.Itoa(i), Types: []string{"fire"}}
		if i%2 == 0 {
			item.Types = []string{"grass", "poison"}
		}
		url := "item/" + strconv.Itoa(i)
		f.refs = append(f.refs, catalog.Ref{Name: item.Name, URL: url})
		f.records[url] = &catalog.Record{
			Item: item,
			AbilityRefs: []catalog.AbilityRef{
				{Name: "blaze", URL: "ability/blaze"},
				{Name: "mystery", URL: "ability/mystery"},
			},
		}
	}
	return f
}

func newTestModel(t *testing.T, start string) Model {
	t.Helper()
	src := newFakeSource()
	lists := list.New(src, zap.NewNop(), list.Config{FetchConcurrency: 4})
	details := detail.NewView(detail.NewLoader(src, detail.LoaderConfig{Language: "en"}), zap.NewNop())

	m := NewModel(context.Background(), lists, details, Options{CatalogURL: "list", StartPath: start})
	return update(t, m, m.activateList()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

// press sends a key. When the key navigates, the load command of the new
// route runs synchronously.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	before := m.Route()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	if cmd != nil && m.Route() != before {
		m = update(t, m, cmd())
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_LoadsCatalog(t *testing.T) {
	m := newTestModel(t, "")

	assert.Equal(t, navigator.ViewList, m.Route().View)
	require.True(t, m.listState.Loaded)
	assert.Equal(t, []string{"fire", "grass", "poison", "water"}, m.listState.Categories)
	assert.Len(t, m.listState.Page.Items, catalog.PageSize)
	assert.Contains(t, m.View(), "mon1 ")
}

func TestModel_Paging(t *testing.T) {
	m := newTestModel(t, "")

	m = press(t, m, runes("n"))
	assert.Equal(t, 2, m.listState.Page.Number)
	assert.Len(t, m.listState.Page.Items, 5)
	assert.False(t, m.listState.Page.HasNext)

	// No page past the last one from the keyboard.
	m = press(t, m, runes("n"))
	assert.Equal(t, 2, m.listState.Page.Number)

	m = press(t, m, runes("p"))
	assert.Equal(t, 1, m.listState.Page.Number)
}

func TestModel_FilterAndSearch(t *testing.T) {
	m := newTestModel(t, "")

	// Cursor starts on "fire"; move to "grass" and toggle it.
	m = press(t, m, runes("l"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.listState.Filter.Selected("grass"))
	assert.Len(t, m.listState.Page.Items, 12)

	m = press(t, m, runes("/"))
	require.True(t, m.searching)
	m = press(t, m, runes("q"))
	assert.Equal(t, "q", m.listState.Filter.Query, "q is text while searching")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = press(t, m, runes("1"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.searching)

	var names []string
	for _, it := range m.listState.Page.Items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"mon10", "mon12", "mon14", "mon16", "mon18"}, names)

	m = press(t, m, runes("c"))
	assert.Empty(t, m.listState.Filter.SelectedTags())
	assert.Empty(t, m.listState.Filter.Query)
	assert.Len(t, m.listState.Page.Items, catalog.PageSize)
}

func TestModel_OpenAndReturn(t *testing.T) {
	m := newTestModel(t, "")

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, navigator.ViewDetail, m.Route().View)
	assert.Equal(t, 2, m.Route().ID)
	require.NotNil(t, m.detailState.Item)
	assert.Equal(t, "mon2", m.detailState.Item.Name)

	out := m.View()
	assert.Contains(t, out, "Powers up Fire-type moves.")
	assert.Contains(t, out, catalog.NoDescription)
	assert.Contains(t, out, "("+catalog.UnknownVersion+")")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, navigator.ViewList, m.Route().View)

	// History back returns to the item that was open.
	m = press(t, m, runes("b"))
	assert.Equal(t, navigator.ViewDetail, m.Route().View)
	assert.Equal(t, 2, m.Route().ID)
}

func TestModel_DetailFailureKeepsLoading(t *testing.T) {
	m := newTestModel(t, navigator.ItemPath(99))
	require.Equal(t, navigator.ViewDetail, m.Route().View)

	m = update(t, m, m.activate(m.Route())())
	assert.Nil(t, m.detailState.Item)
	assert.True(t, m.detailState.Loading)
	assert.Contains(t, m.View(), "Loading...")
}

func TestModel_NotFound(t *testing.T) {
	m := newTestModel(t, "/nowhere")
	assert.Equal(t, navigator.ViewNotFound, m.Route().View)
	assert.True(t, strings.Contains(m.View(), "Not found"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, navigator.ViewList, m.Route().View)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, "")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_DropsSupersededDetail(t *testing.T) {
	m := newTestModel(t, navigator.ItemPath(2))
	require.Equal(t, 2, m.Route().ID)

	stale := &catalog.Item{ID: 1, Name: "mon1"}
	m = update(t, m, detailLoadedMsg{id: 1, state: detail.State{ID: 1, Item: stale}})
	assert.Nil(t, m.detailState.Item)
	assert.True(t, m.detailState.Loading)

	m = update(t, m, m.activate(m.Route())())
	require.NotNil(t, m.detailState.Item)
	assert.Equal(t, 2, m.detailState.Item.ID)
}

func TestModel_Close(t *testing.T) {
	m := newTestModel(t, "")
	m.Close()

	for range m.updates {
	}
	msg := listenForList(m.updates)()
	assert.Equal(t, listUpdateMsg{}, msg)
}
