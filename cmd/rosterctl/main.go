// Package main provides rosterctl, the operator CLI for the buildathon roster.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/festy23/buildathon_roster/internal/backup"
	"github.com/festy23/buildathon_roster/internal/config"
	"github.com/festy23/buildathon_roster/internal/csvimport"
	"github.com/festy23/buildathon_roster/internal/metrics"
	"github.com/festy23/buildathon_roster/internal/roster/repository"
	"github.com/festy23/buildathon_roster/internal/roster/service"
	"github.com/festy23/buildathon_roster/internal/statistics"
	"github.com/festy23/buildathon_roster/internal/storage"
	"github.com/festy23/buildathon_roster/pkg/logger"
)

type deps struct {
	loadEnv   func() error
	loadCfg   func() config.Config
	newLogger func(cfg config.LoggerConfig) (*zap.SugaredLogger, error)
	openStore func(ctx context.Context, cfg config.StoreConfig, logger *zap.SugaredLogger) (storage.Store, error)
	clock     clockwork.Clock
	in        io.Reader
	out       io.Writer
}

func defaultDeps() deps {
	return deps{
		loadEnv:   func() error { return godotenv.Load() },
		loadCfg:   config.LoadFromEnv,
		newLogger: logger.NewWithConfig,
		openStore: storage.Open,
		clock:     clockwork.NewRealClock(),
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// app holds everything a command needs.
type app struct {
	cfg        config.Config
	store      storage.Store
	repo       *repository.Repository
	roster     service.Service
	importer   *csvimport.Importer
	backup     backup.Codec
	statistics statistics.Service
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
	in         io.Reader
	out        io.Writer
}

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = fmt.Fprintln(w, "usage: rosterctl <command> [flags]")
	_, _ = fmt.Fprintln(w, "commands:")
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-18s %s\n", name, commands[name].summary)
	}
}

func run(args []string, d deps) error {
	def := defaultDeps()
	if d.loadEnv == nil {
		d.loadEnv = def.loadEnv
	}
	if d.loadCfg == nil {
		d.loadCfg = def.loadCfg
	}
	if d.newLogger == nil {
		d.newLogger = def.newLogger
	}
	if d.openStore == nil {
		d.openStore = def.openStore
	}
	if d.clock == nil {
		d.clock = def.clock
	}
	if d.in == nil {
		d.in = def.in
	}
	if d.out == nil {
		d.out = def.out
	}

	if len(args) == 0 {
		usage(d.out)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(d.out)
		return fmt.Errorf("unknown command %q", args[0])
	}

	envErr := d.loadEnv()

	cfg := d.loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zl, err := d.newLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	if envErr != nil {
		zl.Debugw("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.OpTimeout)
	defer cancel()

	store, err := d.openStore(ctx, cfg.Store, zl)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			zl.Warnw("Failed to close store", "error", err)
		}
	}()

	aliases, err := csvimport.LoadAliases(cfg.Import.ColumnsFile)
	if err != nil {
		return err
	}

	m := metrics.New()
	repo := repository.New(store, repository.WithClock(d.clock))
	a := &app{
		cfg:        cfg,
		store:      store,
		repo:       repo,
		roster:     service.New(repo, zl, m),
		importer:   csvimport.NewImporter(repo, zl, m, aliases),
		backup:     backup.New(repo, zl, m),
		statistics: statistics.New(repo, zl),
		metrics:    m,
		logger:     zl,
		in:         d.in,
		out:        d.out,
	}

	runErr := cmd.run(ctx, a, args[1:])

	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		zl.Warnw("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
	}
	return runErr
}

func main() {
	if err := run(os.Args[1:], defaultDeps()); err != nil {
		if !errors.Is(err, errUsage) {
			log.Printf("rosterctl: %v", err)
		}
		os.Exit(1)
	}
}
