// Package pokeapi implements catalog.Source over the public PokeAPI.
package pokeapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

// DefaultBaseURL is the public PokeAPI root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

var _ catalog.Source = (*Client)(nil)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Is reports 404 responses as catalog.ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == catalog.ErrNotFound && e.Code == http.StatusNotFound
}

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Client is a read-only PokeAPI client. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	tracer  trace.Tracer
	fetches metric.Int64Counter
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(opts.TracerProvider),
				otelhttp.WithMeterProvider(opts.MeterProvider),
			),
		}
	}

	meter := opts.MeterProvider.Meter("github.com/xenking/pokedex/internal/pokeapi")
	fetches, err := meter.Int64Counter("pokeapi.fetches",
		metric.WithDescription("Upstream PokeAPI requests by endpoint and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create fetch counter")
	}

	return &Client{
		http:    opts.HTTPClient,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		tracer:  opts.TracerProvider.Tracer("github.com/xenking/pokedex/internal/pokeapi"),
		fetches: fetches,
	}, nil
}

// CatalogURL returns the listing URL holding the first limit items.
func (c *Client) CatalogURL(limit int) string {
	return c.baseURL + "/pokemon?limit=" + strconv.Itoa(limit) + "&offset=0"
}

// ListTypes implements catalog.Source.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	refs, err := c.listRefs(ctx, "type", c.baseURL+"/type/")
	if err != nil {
		return nil, err
	}
	types := make([]string, len(refs))
	for i, r := range refs {
		types[i] = r.Name
	}
	return types, nil
}

// ListItems implements catalog.Source.
func (c *Client) ListItems(ctx context.Context, url string) ([]catalog.Ref, error) {
	return c.listRefs(ctx, "pokemon-list", url)
}

// GetItem implements catalog.Source.
func (c *Client) GetItem(ctx context.Context, url string) (*catalog.Record, error) {
	var rec *catalog.Record
	err := c.get(ctx, "pokemon", url, func(d *jx.Decoder) (err error) {
		rec, err = decodeRecord(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetItemByID implements catalog.Source.
func (c *Client) GetItemByID(ctx context.Context, id int) (*catalog.Record, error) {
	return c.GetItem(ctx, c.baseURL+"/pokemon/"+strconv.Itoa(id))
}

// GetAbility implements catalog.Source.
func (c *Client) GetAbility(ctx context.Context, url string) ([]catalog.DescriptionEntry, error) {
	var entries []catalog.DescriptionEntry
	err := c.get(ctx, "ability", url, func(d *jx.Decoder) (err error) {
		entries, err = decodeAbility(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) listRefs(ctx context.Context, endpoint, url string) ([]catalog.Ref, error) {
	var refs []catalog.Ref
	err := c.get(ctx, endpoint, url, func(d *jx.Decoder) (err error) {
		refs, err = decodeList(d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// get issues a GET to url and hands the response body to decode.
func (c *Client) get(ctx context.Context, endpoint, url string, decode func(d *jx.Decoder) error) (rerr error) {
	ctx, span := c.tracer.Start(ctx, "pokeapi."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("pokeapi.url", url)),
	)
	defer func() {
		outcome := "ok"
		if rerr != nil {
			outcome = "error"
			span.RecordError(rerr)
		}
		c.fetches.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("outcome", outcome),
		))
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: url}
	}

	if err := decode(jx.Decode(resp.Body, 4096)); err != nil {
		return errors.Wrapf(err, "decode %s", url)
	}
	zctx.From(ctx).Debug("Fetched", zap.String("endpoint", endpoint), zap.String("url", url))
	return nil
}
