package pokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

const bulbasaurJSON = `{
  "id": 1,
  "name": "bulbasaur",
  "base_experience": 64,
  "height": 7,
  "weight": 69,
  "sprites": {"back_default": null, "front_default": "https://img.example/1.png"},
  "types": [
    {"slot": 1, "type": {"name": "grass", "url": "https://pokeapi.co/api/v2/type/12/"}},
    {"slot": 2, "type": {"name": "poison", "url": "https://pokeapi.co/api/v2/type/4/"}}
  ],
  "abilities": [
    {"ability": {"name": "overgrow", "url": "ABILITY/65/"}, "is_hidden": false, "slot": 1},
    {"ability": {"name": "chlorophyll", "url": "ABILITY/34/"}, "is_hidden": true, "slot": 3}
  ]
}`

const overgrowJSON = `{
  "id": 65,
  "name": "overgrow",
  "flavor_text_entries": [
    {"flavor_text": "Ups GRASS moves\nin a pinch.", "language": {"name": "en", "url": ""}, "version_group": {"name": "ruby-sapphire", "url": ""}},
    {"flavor_text": "Erhöht Pflanzen-Attacken.", "language": {"name": "de", "url": ""}, "version_group": {"name": "x-y", "url": ""}}
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /type/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count":3,"next":null,"results":[{"name":"water","url":""},{"name":"fire","url":""},{"name":"bug","url":""}]}`))
	})
	mux.HandleFunc("GET /pokemon", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"count":2,"results":[{"name":"bulbasaur","url":"x/1/"},{"name":"ivysaur","url":"x/2/"}]}`))
	})
	mux.HandleFunc("GET /pokemon/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bulbasaurJSON))
	})
	mux.HandleFunc("GET /pokemon/2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": 2, "name": "ivysaur", "sprites": {"front_default": null}, "types": [], "abilities": []}`))
	})
	mux.HandleFunc("GET /ability/65/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(overgrowJSON))
	})
	mux.HandleFunc("GET /broken", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "one"`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return srv, c
}

func TestClient_ListTypes(t *testing.T) {
	_, c := newTestServer(t)

	types, err := c.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"water", "fire", "bug"}, types)
}

func TestClient_ListItems(t *testing.T) {
	_, c := newTestServer(t)

	refs, err := c.ListItems(context.Background(), c.CatalogURL(2))
	require.NoError(t, err)
	assert.Equal(t, []catalog.Ref{
		{Name: "bulbasaur", URL: "x/1/"},
		{Name: "ivysaur", URL: "x/2/"},
	}, refs)
}

func TestClient_GetItemByID(t *testing.T) {
	_, c := newTestServer(t)

	rec, err := c.GetItemByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "bulbasaur", rec.Name)
	assert.Equal(t, "https://img.example/1.png", rec.Image)
	assert.Equal(t, []string{"grass", "poison"}, rec.Types)
	require.NotNil(t, rec.Measurements)
	assert.Equal(t, catalog.Measurements{Height: 7, Weight: 69}, *rec.Measurements)
	assert.Equal(t, []catalog.AbilityRef{
		{Name: "overgrow", URL: "ABILITY/65/"},
		{Name: "chlorophyll", URL: "ABILITY/34/"},
	}, rec.AbilityRefs)
}

func TestClient_GetItem_NullSprite(t *testing.T) {
	_, c := newTestServer(t)

	rec, err := c.GetItemByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "ivysaur", rec.Name)
	assert.Empty(t, rec.Image)
	assert.Empty(t, rec.Types)
	assert.Nil(t, rec.Measurements)
}

func TestClient_GetAbility(t *testing.T) {
	srv, c := newTestServer(t)

	entries, err := c.GetAbility(context.Background(), srv.URL+"/ability/65/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, catalog.DescriptionEntry{
		Text:     "Ups GRASS moves\nin a pinch.",
		Version:  "ruby-sapphire",
		Language: "en",
	}, entries[0])
	assert.Equal(t, "de", entries[1].Language)
}

func TestClient_NotFound(t *testing.T) {
	_, c := newTestServer(t)

	_, err := c.GetItemByID(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClient_MalformedBody(t *testing.T) {
	srv, c := newTestServer(t)

	_, err := c.GetItem(context.Background(), srv.URL+"/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
	assert.NotErrorIs(t, err, catalog.ErrNotFound)
}
