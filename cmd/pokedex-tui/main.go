// pokedex-tui browses the PokeAPI catalog in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xenking/pokedex/internal/pokeapi"
	"github.com/xenking/pokedex/internal/tui"
	"github.com/xenking/pokedex/internal/view/detail"
	"github.com/xenking/pokedex/internal/view/list"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL     string
		limit       int
		concurrency int
		language    string
		start       string
		logFile     string
	)

	flagSet := pflag.NewFlagSet("pokedex-tui", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "pokeapi-url", pokeapi.DefaultBaseURL, "PokeAPI root URL")
	flagSet.IntVar(&limit, "limit", 100000, "number of items requested for the catalog")
	flagSet.IntVar(&concurrency, "concurrency", 16, "max concurrent detail fetches (0 = unbounded)")
	flagSet.StringVar(&language, "lang", "en", "ability description language (empty = first entry)")
	flagSet.StringVar(&start, "path", "/", "initial path, e.g. /item/25")
	flagSet.StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	lg, err := newLogger(logFile)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = zctx.Base(ctx, lg)

	client, err := pokeapi.New(pokeapi.Options{BaseURL: baseURL})
	if err != nil {
		return errors.Wrap(err, "create pokeapi client")
	}
	lists := list.New(client, lg.Named("list"), list.Config{FetchConcurrency: concurrency})
	details := detail.NewView(detail.NewLoader(client, detail.LoaderConfig{
		Language:         language,
		FetchConcurrency: concurrency,
	}), lg.Named("detail"))

	model := tui.NewModel(ctx, lists, details, tui.Options{
		CatalogURL: client.CatalogURL(limit),
		StartPath:  start,
		Logger:     lg,
	})
	defer model.Close()
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil &&
		!errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run")
	}
	return nil
}

// newLogger logs to path, or nowhere when path is empty. The terminal
// belongs to the UI.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	lg, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return lg, nil
}
