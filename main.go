package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vector81/Jobby/answer"
	"github.com/vector81/Jobby/browser"
	"github.com/vector81/Jobby/config"
	"github.com/vector81/Jobby/model"
	"github.com/vector81/Jobby/repository"
	"github.com/vector81/Jobby/service"
	"github.com/vector81/Jobby/store"
	"github.com/vector81/Jobby/utils"
	"github.com/vector81/Jobby/worker/indeed"
	"github.com/vector81/Jobby/worker/platform"
	"github.com/vector81/Jobby/worker/runner"
	"github.com/vector81/Jobby/worker/seek"
)

// Application wires every collaborator of a run and owns their teardown
// order. stores and ledger first, then the browser, so nothing writes into a
// closed session.
type Application struct {
	cfg     *config.GlobalConfig
	lock    *flock.Flock
	db      *gorm.DB
	session browser.Session

	catalogue *store.Catalogue
	answers   *store.AnswerStore
	runner    *runner.Runner
}

func NewApplication() *Application {
	return &Application{}
}

// Init loads configuration, takes the single-instance lock, opens the ledger
// and the JSON stores, launches the browser, and assembles the runner.
func (app *Application) Init() error {
	cfg, err := config.InitConfig()
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	app.cfg = cfg

	dataDir := utils.ExpandPath(cfg.Data.Dir)
	if err := utils.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("create data dir %s: %w", dataDir, err)
	}

	// One run at a time: two processes rewriting the same JSON stores would
	// silently drop each other's learning.
	app.lock = flock.New(cfg.DataFile("jobby.lock"))
	locked, err := app.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run already holds %s", app.lock.Path())
	}

	if err := app.initDatabase(); err != nil {
		return err
	}

	app.answers = store.LoadAnswers(cfg.DataFile("answers.json"))
	app.catalogue = store.LoadCatalogue(cfg.DataFile("catalogue.json"))
	log.Infof("loaded %d learned answer(s), %d catalogued job(s)",
		app.answers.Len(), app.catalogue.Len())

	session, err := browser.NewSession(browser.Options{
		Engine:     cfg.Browser.Engine,
		Headless:   cfg.Browser.Headless,
		ProfileDir: utils.ExpandPath(cfg.Browser.ProfileDir),
	})
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	app.session = session

	adapters, err := buildAdapters(cfg)
	if err != nil {
		return err
	}

	resolver := answer.NewResolver(app.answers, answer.DefaultRules(cfg.Profile))
	history := service.NewHistoryService(repository.NewAttemptRepository(app.db))
	app.runner = runner.New(cfg, session, adapters, app.catalogue, resolver, history)
	return nil
}

func (app *Application) initDatabase() error {
	db, err := gorm.Open(sqlite.Open(app.cfg.DataFile("jobby.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open ledger db: %w", err)
	}
	if err := db.AutoMigrate(&model.ApplicationAttemptEntity{}); err != nil {
		return fmt.Errorf("migrate ledger db: %w", err)
	}
	app.db = db
	return nil
}

func buildAdapters(cfg *config.GlobalConfig) ([]platform.Adapter, error) {
	var adapters []platform.Adapter
	for _, name := range cfg.Search.Platforms {
		switch name {
		case "seek":
			adapters = append(adapters, seek.New(cfg))
		case "indeed":
			adapters = append(adapters, indeed.New(cfg))
		default:
			return nil, fmt.Errorf("unknown platform %q", name)
		}
	}
	return adapters, nil
}

// Start runs the batch. The browser stays open afterwards so the operator
// can review what was submitted; shutdown is signal-driven.
func (app *Application) Start(ctx context.Context) {
	if err := app.runner.Run(ctx); err != nil {
		log.Errorf("run ended early: %v", err)
		return
	}
	log.Info("batch finished; browser stays open, press Ctrl+C to exit")
}

// Stop flushes the stores and tears the session down.
func (app *Application) Stop() {
	if app.answers != nil {
		if err := app.answers.Flush(); err != nil {
			log.Warnf("final answer flush: %v", err)
		}
	}
	if app.catalogue != nil {
		if err := app.catalogue.Flush(); err != nil {
			log.Warnf("final catalogue flush: %v", err)
		}
	}
	if app.session != nil {
		if err := app.session.Close(); err != nil {
			log.Warnf("close browser: %v", err)
		}
	}
	if app.db != nil {
		if sqlDB, err := app.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if app.lock != nil {
		_ = app.lock.Unlock()
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if os.Getenv("JOBBY_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	app := NewApplication()
	if err := app.Init(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go app.Start(ctx)

	waitForShutdown()
	cancel()

	done := make(chan struct{})
	go func() {
		app.Stop()
		close(done)
	}()
	select {
	case <-done:
		log.Info("shutdown complete")
	case <-time.After(30 * time.Second):
		log.Warn("shutdown timed out")
	}
}

func waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
}
