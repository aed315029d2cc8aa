package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/presscorpus/presscorpus/pkg/config"
	"github.com/presscorpus/presscorpus/pkg/domain"
	"github.com/presscorpus/presscorpus/pkg/pipeline"
	"github.com/presscorpus/presscorpus/pkg/repository"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"config file (yaml)"`

	Dir           string   `short:"d" long:"dir" env:"DIR" description:"directory with article export files"`
	Ext           string   `short:"e" long:"ext" env:"EXT" description:"article file extension (rtf, html, txt)"`
	Locale        string   `long:"locale" env:"LOCALE" description:"locale for date parsing (english, dutch, french)"`
	FrenchOutlets []string `long:"french-outlet" env:"FRENCH_OUTLETS" env-delim:"," description:"outlet tagged fr, repeatable"`
	CSV           string   `short:"o" long:"csv" env:"CSV" description:"corpus table output path"`
	DSN           string   `long:"dsn" env:"DSN" description:"sqlite dsn, enables persistence"`
	Workers       int      `long:"workers" env:"WORKERS" description:"max concurrent per-article workers"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	log.Printf("[INFO] starting presscorpus version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] run failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] completed")
}

// run executes one batch: build config, run the pipeline, write the
// corpus table and optionally persist the run
func run(ctx context.Context, opts Opts) error {
	cfg, err := makeConfig(opts)
	if err != nil {
		return err
	}

	if len(cfg.Language.FrenchOutlets) == 0 {
		log.Print("[WARN] no French outlets configured, every article will be tagged nl")
	}

	proc, err := pipeline.New(pipeline.Config{
		Dir:           cfg.Input.Dir,
		Extension:     cfg.Input.Extension,
		Locale:        cfg.Locale(),
		FrenchOutlets: cfg.Language.FrenchOutlets,
		MaxWorkers:    cfg.Pipeline.MaxWorkers,
	})
	if err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	result, err := proc.Run(ctx)
	if err != nil {
		return err
	}

	if err := result.Table.SaveCSV(cfg.Output.CSV); err != nil {
		return fmt.Errorf("write corpus table: %w", err)
	}
	log.Printf("[INFO] corpus table written to %s: %d rows, %d outlet columns",
		cfg.Output.CSV, len(result.Table.Rows), len(result.Table.Features))

	if cfg.Database.DSN != "" {
		if err := persist(ctx, cfg, result); err != nil {
			return err
		}
	}

	reportIssues(&result.Report)
	return nil
}

// makeConfig loads the config file if given and applies CLI overrides
func makeConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if opts.Dir != "" {
		cfg.Input.Dir = opts.Dir
	}
	if opts.Ext != "" {
		cfg.Input.Extension = opts.Ext
	}
	if opts.Locale != "" {
		cfg.Input.Locale = opts.Locale
	}
	if len(opts.FrenchOutlets) > 0 {
		cfg.Language.FrenchOutlets = opts.FrenchOutlets
	}
	if opts.CSV != "" {
		cfg.Output.CSV = opts.CSV
	}
	if opts.DSN != "" {
		cfg.Database.DSN = opts.DSN
	}
	if opts.Workers > 0 {
		cfg.Pipeline.MaxWorkers = opts.Workers
	}

	if cfg.Input.Dir == "" {
		return nil, fmt.Errorf("input directory is required, set --dir or input.dir in config")
	}
	if _, err := domain.ParseLocale(cfg.Input.Locale); err != nil {
		return nil, err
	}
	return cfg, nil
}

// persist saves the run to the configured database
func persist(ctx context.Context, cfg *config.Config, result *pipeline.Result) error {
	repo, err := repository.New(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetimeDuration(),
	})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	runID, err := repo.SaveRun(ctx, repository.RunMeta{InputDir: cfg.Input.Dir, Locale: cfg.Locale()},
		result.Records, result.Table, &result.Report)
	if err != nil {
		return err
	}
	log.Printf("[INFO] run saved as id %d", runID)
	return nil
}

// reportIssues prints the recoverable-issue summary for the run
func reportIssues(report *domain.Report) {
	if report.Empty() {
		log.Print("[INFO] no recoverable issues")
		return
	}

	log.Printf("[WARN] %d recoverable issues: %d skipped files, %d null dates, %d null sources",
		len(report.Issues), report.Count(domain.StageFormat), report.Count(domain.StageDate), report.Count(domain.StageSource))
	for _, issue := range report.Issues {
		log.Printf("[WARN]   %s", issue)
	}
}

func setupLog(dbg, noColor bool) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
