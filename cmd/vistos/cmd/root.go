package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"github.com/z3c0/vistos-legacy/internal/components/httpcache"
	"github.com/z3c0/vistos-legacy/internal/components/telemetry"
	"github.com/z3c0/vistos-legacy/internal/scrapers/bioguide"
	"github.com/z3c0/vistos-legacy/internal/scrapers/govinfo"
	"github.com/z3c0/vistos-legacy/internal/scrapers/propublica"
	"github.com/z3c0/vistos-legacy/internal/service"
	"github.com/z3c0/vistos-legacy/internal/store"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	dbPath     string
	skipDir    bool
)

// application is everything a command needs, built once flags are parsed.
type application struct {
	service *service.Service
	store   *store.Store
	tracing telemetry.Tracing
	closers []func() error
}

var app *application

var rootCmd = &cobra.Command{
	Use:           "vistos",
	Short:         "vistos looks up members of the U.S. Congress across public directories.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSlog(verbose)
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		app, err = newApplication(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: vistos.json5 in this or a parent directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and debug information")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "save results to this sqlite database")
	rootCmd.PersistentFlags().BoolVar(&skipDir, "skip-directory", false, "do not look members up in the govinfo directory")
}

func initSlog(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// newApplication wires the clients and the service. Whatever was opened before a failing step
// is closed again.
func newApplication(ctx context.Context, cfg Config) (_ *application, err error) {
	a := &application{}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.Close())
		}
	}()

	tracing, err := telemetry.SetupTracing(ctx, "vistos", cfg.Otlp)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.tracing = tracing

	var tel telemetry.API = telemetry.NewSlogAPI(slog.Default())

	var cache httpcache.Cache
	if cfg.Cache.Dir != "" {
		disk, err := httpcache.OpenDisk(cfg.Cache.Dir, cfg.CacheTtl(), chrono.NewStandardTime())
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		a.closers = append(a.closers, disk.Close)
		cache = disk
	} else {
		entries := cfg.Cache.MemoryEntries
		if entries <= 0 {
			entries = 512
		}
		cache = httpcache.NewMemory(entries, cfg.CacheTtl())
	}

	bio, err := bioguide.NewClient(bioguide.ClientOptions{
		BaseUrl:           cfg.BioguideBaseUrl,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Cache:             cache,
		Telemetry:         tel,
	})
	if err != nil {
		return nil, err
	}
	directory, err := govinfo.NewClient(govinfo.ClientOptions{
		BaseUrl:           cfg.GovinfoBaseUrl,
		ApiKey:            cfg.GovinfoApiKey,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Cache:             cache,
		Matcher:           govinfo.FirstMatcher{govinfo.BioguideMatcher{}, govinfo.NameMatcher{}},
		Telemetry:         tel,
	})
	if err != nil {
		return nil, err
	}
	legislative, err := propublica.NewClient(propublica.ClientOptions{
		BaseUrl:           cfg.PropublicaBaseUrl,
		ApiKey:            cfg.PropublicaApiKey,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Telemetry:         tel,
	})
	if err != nil {
		return nil, err
	}

	options := []service.Option{
		service.WithTelemetry(tel),
		service.WithDirectory(directory, ""),
		service.WithLegislative(legislative, ""),
	}
	if skipDir {
		options = append(options, service.WithoutDirectory())
	}
	a.service = service.New(bio, options...)

	if dbPath != "" {
		s, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, s.Close)
		a.store = s
	}
	return a, nil
}

func (a *application) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil && first == nil {
		first = err
	}
	return first
}

// selector reads an optional congress number or year argument.
func selector(args []string) (*int, error) {
	if len(args) == 0 || args[0] == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%q is not a congress number or year", args[0])
	}
	return &n, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
