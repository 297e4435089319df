package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/pulsefeed/pkg/aggregate"
	"github.com/umputun/pulsefeed/pkg/config"
	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/feed"
	"github.com/umputun/pulsefeed/pkg/llm"
	"github.com/umputun/pulsefeed/pkg/notify"
	"github.com/umputun/pulsefeed/pkg/publish"
	"github.com/umputun/pulsefeed/pkg/queue"
	"github.com/umputun/pulsefeed/pkg/repository"
	"github.com/umputun/pulsefeed/pkg/scheduler"
	"github.com/umputun/pulsefeed/pkg/source"
	"github.com/umputun/pulsefeed/pkg/trending"
	"github.com/umputun/pulsefeed/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"pulsefeed.yml" description:"configuration file"`
	Mode   string `short:"m" long:"mode" env:"MODE" default:"all" choice:"all" choice:"aggregate" choice:"publish" description:"components to run"`
	Once   bool   `long:"once" description:"run single aggregation and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// run modes
const (
	modeAll       = "all"
	modeAggregate = "aggregate"
	modePublish   = "publish"
)

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

	log.Printf("[INFO] starting pulsefeed version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] pulsefeed failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// app is the wired set of components
type app struct {
	cfg        *config.Config
	repos      *repository.Repositories
	broker     *queue.Broker
	aggregator *aggregate.Service
	feeds      *publish.FeedHandler
	keywords   *publish.KeywordsHandler
	trending   *trending.Service
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, opts.NoColor, secrets(cfg)...)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if opts.Once {
		return a.aggregateOnce(ctx)
	}
	if opts.Mode == modePublish && a.broker == nil {
		return errors.New("publish mode requires queue to be enabled")
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.Mode == modeAll || opts.Mode == modeAggregate {
		if err := a.aggregator.Bootstrap(ctx); err != nil {
			return fmt.Errorf("failed to bootstrap sources: %w", err)
		}
		g.Go(func() error { return a.schedule(ctx) })
		srv := server.New(cfg, server.Deps{Trending: a.trending, Jobs: a.repos.Job, Sources: a.repos.Source,
			Aggregator: a.aggregator, DB: a.repos}, revision, opts.Debug)
		g.Go(func() error { return srv.Run(ctx) })
	}
	if (opts.Mode == modeAll || opts.Mode == modePublish) && a.broker != nil {
		g.Go(func() error { return a.broker.Consume(ctx, cfg.Queue.FeedQueue, a.feeds) })
		if cfg.Features.KeywordsFanout && a.keywords != nil {
			g.Go(func() error { return a.broker.Consume(ctx, cfg.Queue.KeywordsQueue, a.keywords) })
		}
	}
	return g.Wait()
}

// newApp wires storage, queue, keyword generation, trending and aggregation
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a := &app{cfg: cfg, repos: repos}

	a.trending = trending.NewService(repos.Cache, trending.Params{
		TTL:            cfg.Trending.TTL,
		MinScore:       cfg.Trending.MinScore,
		PerCategoryCap: cfg.Trending.PerCategoryCap,
	})

	a.feeds = &publish.FeedHandler{
		Articles: repos.Article,
		Tasks:    repos.Task,
		Trending: a.trending,
		FeedOptions: publish.FeedOptions{
			LLMKeywords:    cfg.Features.LLMKeywords,
			KeywordsFanout: cfg.Features.KeywordsFanout,
			BatchSize:      cfg.LLM.BatchSize,
		},
	}
	if cfg.Features.LLMKeywords {
		gen := llm.NewGenerator(cfg.LLM)
		a.feeds.Generator = gen
		a.keywords = &publish.KeywordsHandler{Articles: repos.Article, Generator: gen, Trending: a.trending}
	}

	var sink aggregate.Sink = aggregate.StoreSink{Publisher: a.feeds}
	if cfg.Queue.Enabled {
		if a.broker, err = queue.Dial(cfg.Queue); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to queue: %w", err)
		}
		a.feeds.Fanout = a.broker
		sink = aggregate.QueueSink{Queue: a.broker}
	}

	params := aggregate.Params{
		Publishers: source.Publishers(),
		Fetcher:    feed.NewHTTPFetcher(cfg.Aggregate.FetchTimeout),
		Allow:      cfg.Aggregate.Sources,
		Sources:    repos.Source,
		Jobs:       repos.Job,
		Sink:       sink,
	}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(notify.Params{Token: cfg.Telegram.Token, ChatID: cfg.Telegram.ChatID})
		if err != nil {
			log.Printf("[WARN] telegram notifications disabled: %v", err)
		} else {
			params.Notifier = tg
		}
	}
	a.aggregator = aggregate.NewService(params)
	return a, nil
}

// aggregateOnce bootstraps sources and runs a single job, failed job is an error
func (a *app) aggregateOnce(ctx context.Context) error {
	if err := a.aggregator.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap sources: %w", err)
	}
	job, err := a.aggregator.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}
	if job.Status != domain.JobSuccess {
		return fmt.Errorf("aggregation job #%d failed: %s", job.ID, job.Reason)
	}
	return nil
}

// schedule runs aggregation by cron specs and on start, and purges expired cache entries
func (a *app) schedule(ctx context.Context) error {
	sched, err := scheduler.NewScheduler(scheduler.Params{
		Aggregator: a.aggregator,
		Purger:     a.repos.Cache,
		Schedules:  a.cfg.Aggregate.Schedules,
		RunOnStart: a.cfg.RunOnStart(),
	})
	if err != nil {
		return fmt.Errorf("failed to make scheduler: %w", err)
	}
	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	return nil
}

func (a *app) close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			log.Printf("[WARN] failed to close queue: %v", err)
		}
	}
	if err := a.repos.Close(); err != nil {
		log.Printf("[WARN] failed to close database: %v", err)
	}
}

// secrets returns values which must not appear in logs
func secrets(cfg *config.Config) []string {
	var res []string
	if cfg.LLM.APIKey != "" {
		res = append(res, cfg.LLM.APIKey)
	}
	if cfg.Telegram.Token != "" {
		res = append(res, cfg.Telegram.Token)
	}
	if u, err := url.Parse(cfg.Queue.URL); err == nil && u.User != nil {
		if pass, ok := u.User.Password(); ok && pass != "" {
			res = append(res, pass)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
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
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
