package detail

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

type mockSource struct {
	records    map[int]*catalog.Record
	abilities  map[string][]catalog.DescriptionEntry
	abilityErr error
	// gates blocks GetItemByID for an id until its channel is closed.
	gates map[int]chan struct{}
}

func (m *mockSource) ListTypes(_ context.Context) ([]string, error) { return nil, nil }

func (m *mockSource) ListItems(_ context.Context, _ string) ([]catalog.Ref, error) {
	return nil, nil
}

func (m *mockSource) GetItem(_ context.Context, _ string) (*catalog.Record, error) {
	return nil, catalog.ErrNotFound
}

func (m *mockSource) GetItemByID(_ context.Context, id int) (*catalog.Record, error) {
	if gate, ok := m.gates[id]; ok {
		<-gate
	}
	rec, ok := m.records[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return rec, nil
}

func (m *mockSource) GetAbility(_ context.Context, url string) ([]catalog.DescriptionEntry, error) {
	if m.abilityErr != nil {
		return nil, m.abilityErr
	}
	return m.abilities[url], nil
}

func bulbasaurSource() *mockSource {
	return &mockSource{
		records: map[int]*catalog.Record{
			1: {
				Item: catalog.Item{
					ID:           1,
					Name:         "bulbasaur",
					Image:        "front.png",
					Types:        []string{"grass", "poison"},
					Measurements: &catalog.Measurements{Height: 7, Weight: 69},
				},
				AbilityRefs: []catalog.AbilityRef{
					{Name: "overgrow", URL: "ability/65"},
					{Name: "chlorophyll", URL: "ability/34"},
				},
			},
		},
		abilities: map[string][]catalog.DescriptionEntry{
			"ability/65": {
				{Text: "Steigert Pflanzen-Attacken.", Version: "x-y", Language: "de"},
				{Text: "Powers up Grass-type\nmoves in a pinch.", Version: "ruby-sapphire", Language: "en"},
			},
		},
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{path: "/item/25", want: 25},
		{path: "/item/25/", want: 25},
		{path: "/item/pikachu", want: 0},
		{path: "/item/", want: 0},
		{path: "", want: 0},
		{path: "7", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseID(tt.path))
		})
	}
}

func TestSelectDescription(t *testing.T) {
	entries := []catalog.DescriptionEntry{
		{Text: "Premier", Version: "x-y", Language: "fr"},
		{Text: "First\fEnglish", Version: "emerald", Language: "en"},
		{Text: "Second English", Version: "sun-moon", Language: "en"},
	}

	text, version := SelectDescription(entries, "en")
	assert.Equal(t, "First English", text)
	assert.Equal(t, "emerald", version)

	text, version = SelectDescription(entries, "")
	assert.Equal(t, "Premier", text)
	assert.Equal(t, "x-y", version)

	text, version = SelectDescription(entries, "ja")
	assert.Equal(t, catalog.NoDescription, text)
	assert.Equal(t, catalog.UnknownVersion, version)

	text, version = SelectDescription(nil, "")
	assert.Equal(t, catalog.NoDescription, text)
	assert.Equal(t, catalog.UnknownVersion, version)
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader(bulbasaurSource(), LoaderConfig{Language: "en"})

	item, err := l.Load(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "bulbasaur", item.Name)
	assert.Equal(t, []string{"grass", "poison"}, item.Types)
	require.Len(t, item.Abilities, 2)
	assert.Equal(t, catalog.Ability{
		Name:        "overgrow",
		Description: "Powers up Grass-type moves in a pinch.",
		Version:     "ruby-sapphire",
	}, item.Abilities[0])

	// chlorophyll has no description entries at all.
	assert.Equal(t, catalog.Ability{
		Name:        "chlorophyll",
		Description: catalog.NoDescription,
		Version:     catalog.UnknownVersion,
	}, item.Abilities[1])
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		l := NewLoader(bulbasaurSource(), LoaderConfig{})
		_, err := l.Load(context.Background(), 0)
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("one ability fails", func(t *testing.T) {
		src := bulbasaurSource()
		src.abilityErr = errors.New("bad gateway")
		l := NewLoader(src, LoaderConfig{FetchConcurrency: 1})

		item, err := l.Load(context.Background(), 1)
		require.Error(t, err)
		assert.Nil(t, item)
		assert.Contains(t, err.Error(), "get ability")
	})
}

func TestView_Load(t *testing.T) {
	v := NewView(NewLoader(bulbasaurSource(), LoaderConfig{Language: "en"}), zap.NewNop())

	var seen []State
	v.OnChange(func(s State) { seen = append(seen, s) })

	v.Load(context.Background(), 1)

	s := v.State()
	assert.Equal(t, 1, s.ID)
	assert.False(t, s.Loading)
	require.NotNil(t, s.Item)
	assert.Equal(t, "bulbasaur", s.Item.Name)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.Nil(t, seen[0].Item)
}

func TestView_LoadFailureStaysLoading(t *testing.T) {
	v := NewView(NewLoader(bulbasaurSource(), LoaderConfig{}), zap.NewNop())

	v.Load(context.Background(), ParseID("/item/not-a-number"))

	s := v.State()
	assert.Equal(t, 0, s.ID)
	assert.True(t, s.Loading)
	assert.Nil(t, s.Item)
}

func TestView_LoadDropsSupersededResult(t *testing.T) {
	src := bulbasaurSource()
	src.records[2] = &catalog.Record{Item: catalog.Item{ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}}}
	src.gates = map[int]chan struct{}{
		1: make(chan struct{}),
		2: make(chan struct{}),
	}
	v := NewView(NewLoader(src, LoaderConfig{Language: "en"}), zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v.Load(ctx, 1)
	}()
	require.Eventually(t, func() bool { return v.State().ID == 1 }, time.Second, time.Millisecond)
	go func() {
		defer wg.Done()
		v.Load(ctx, 2)
	}()
	require.Eventually(t, func() bool { return v.State().ID == 2 }, time.Second, time.Millisecond)

	// The newer request finishes first, then the stale one lands.
	close(src.gates[2])
	require.Eventually(t, func() bool { return v.State().Item != nil }, time.Second, time.Millisecond)
	close(src.gates[1])
	wg.Wait()

	s := v.State()
	assert.Equal(t, 2, s.ID)
	assert.False(t, s.Loading)
	require.NotNil(t, s.Item)
	assert.Equal(t, s.ID, s.Item.ID)
	assert.Equal(t, "ivysaur", s.Item.Name)
}

func TestView_LoadStaleResultKeepsLoading(t *testing.T) {
	src := bulbasaurSource()
	src.records[2] = &catalog.Record{Item: catalog.Item{ID: 2, Name: "ivysaur"}}
	src.gates = map[int]chan struct{}{1: make(chan struct{}), 2: make(chan struct{})}
	v := NewView(NewLoader(src, LoaderConfig{}), zap.NewNop())
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Load(ctx, 1)
	}()
	require.Eventually(t, func() bool { return v.State().ID == 1 }, time.Second, time.Millisecond)
	go v.Load(ctx, 2)
	require.Eventually(t, func() bool { return v.State().ID == 2 }, time.Second, time.Millisecond)

	close(src.gates[1])
	<-done

	s := v.State()
	assert.Equal(t, 2, s.ID)
	assert.True(t, s.Loading)
	assert.Nil(t, s.Item)

	close(src.gates[2])
	require.Eventually(t, func() bool { return !v.State().Loading }, time.Second, time.Millisecond)
}
