package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/natefinch/lumberjack"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/tubehook/pkg/config"
	"github.com/umputun/tubehook/pkg/hub"
	"github.com/umputun/tubehook/pkg/notify"
	"github.com/umputun/tubehook/pkg/push"
	"github.com/umputun/tubehook/pkg/registry"
	"github.com/umputun/tubehook/pkg/repository"
	"github.com/umputun/tubehook/pkg/scheduler"
	"github.com/umputun/tubehook/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"tubehook.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	Log struct {
		File       string `long:"file" env:"FILE" description:"log file, stdout only if empty"`
		MaxSize    int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in MB"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"5" description:"max number of rotated files"`
		MaxAge     int    `long:"max-age" env:"MAX_AGE" default:"30" description:"max days to keep rotated files"`
		Compress   bool   `long:"compress" env:"COMPRESS" description:"gzip rotated files"`
	} `group:"log" namespace:"log" env-namespace:"LOG"`

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

	logWriter := logFile(opts)
	setupLog(opts.Debug, opts.NoColor, logWriter)
	lgr.Printf("[INFO] starting tubehook version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, logWriter)
	cancel()
	if logWriter != nil {
		_ = logWriter.Close()
	}

	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

// run wires all components and blocks until ctx canceled or server failed
func run(ctx context.Context, opts Opts, logWriter *lumberjack.Logger) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	// mask secrets from now on
	setupLog(opts.Debug, opts.NoColor, logWriter, cfg.Hub.Secret, cfg.Server.APIToken, cfg.Notify.WebhookURL)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Storage.DSN,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Storage.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close storage: %v", err)
		}
	}()

	var sink notify.Sink = notify.LogSink{}
	if cfg.Notify.WebhookURL != "" {
		sink = notify.NewDiscordSink(notify.DiscordConfig{
			WebhookURL: cfg.Notify.WebhookURL,
			Username:   cfg.Notify.Username,
			Timeout:    cfg.Notify.Timeout,
		})
	} else {
		lgr.Printf("[WARN] no notify.webhook_url configured, notifications go to log")
	}
	reporter := notify.NewReporter(sink)

	reg := registry.New(registry.Params{
		Store:       repos.KV,
		Hub:         hub.NewClient(hub.Config{Endpoint: cfg.Hub.Endpoint, TopicPrefix: cfg.Hub.TopicPrefix, Timeout: cfg.Hub.Timeout}),
		Reporter:    reporter,
		Secret:      cfg.Hub.Secret,
		CallbackURL: cfg.CallbackURL(),
	})
	lgr.Printf("[INFO] hub %s, callback %s", cfg.Hub.Endpoint, cfg.CallbackURL())

	pipeline := push.New(cfg.Hub.Secret, notify.NewForwarder(sink))
	srv := server.New(cfg, reg, pipeline, reporter, revision, opts.Debug)
	sched := scheduler.NewScheduler(scheduler.Params{
		Renewer:      reg,
		Reporter:     reporter,
		Schedule:     cfg.Renew.Schedule,
		RenewOnStart: cfg.Renew.OnStart,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logFile makes rotating log file writer if requested
func logFile(opts Opts) *lumberjack.Logger {
	if opts.Log.File == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   opts.Log.File,
		MaxSize:    opts.Log.MaxSize,
		MaxBackups: opts.Log.MaxBackups,
		MaxAge:     opts.Log.MaxAge,
		Compress:   opts.Log.Compress,
	}
}

func setupLog(dbg, noColor bool, file *lumberjack.Logger, secs ...string) {
	var logOpts []lgr.Option
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if file != nil {
		logOpts = append(logOpts, lgr.Out(io.MultiWriter(os.Stdout, file)), lgr.Err(io.MultiWriter(os.Stderr, file)))
	}

	if !noColor && file == nil {
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

	var masked []string
	for _, s := range secs {
		if s != "" {
			masked = append(masked, s)
		}
	}
	if len(masked) > 0 {
		logOpts = append(logOpts, lgr.Secret(masked...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
