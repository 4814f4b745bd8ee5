package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"stairwell/internal/config"
	"stairwell/internal/eventlog"
	"stairwell/internal/game"
	"stairwell/internal/save"
	"stairwell/internal/serverapp"
	"stairwell/internal/sim"
)

func main() {
	configPath := flag.String("config", "stairwell.yaml", "YAML config file; missing means defaults")
	flag.Parse()

	logger := log.New(os.Stdout, "", 0)
	if err := run(*configPath, logger); err != nil {
		logger.Fatalf("stairwell: %v", err)
	}
}

func run(configPath string, logger *log.Logger) error {
	loaded, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	cfg := config.FromEnv(*loaded)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Tick.Seed == 0 {
		cfg.Tick.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := game.RealClock{}
	repo, err := save.NewFileRepo(cfg.Server.SavePath, clock)
	if err != nil {
		return err
	}
	events := eventlog.NewMemoryLog(cfg.Log.Retention, clock)
	sink := eventlog.Tee(events, eventlog.LoggerSink{Logger: logger, MinSeverity: eventlog.Warning})

	eng, err := bootEngine(ctx, cfg, clock, sink, repo, logger)
	if err != nil {
		return err
	}
	runner := sim.NewRunner(eng, cfg.Tick, logger)
	saver := newAutosaver(repo, clock, time.Duration(cfg.Server.AutosaveEveryS)*time.Second, logger)
	runner.OnFixedTick = saver.maybeSave

	handler, err := serverapp.NewHandler(serverapp.Options{
		Runner: runner,
		Log:    events,
		Repo:   repo,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = runner.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("listening on http://localhost%s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Printf("http shutdown: %v", shutdownErr)
	}
	wg.Wait()

	if saveErr := saver.save(shutdownCtx, runner.Snapshot()); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

// bootEngine builds the engine and resumes the stored game, replaying the
// ticks missed while the process was down.
func bootEngine(ctx context.Context, cfg config.Config, clock game.Clock, sink eventlog.Sink, repo save.Repository, logger *log.Logger) (*sim.Engine, error) {
	eng := sim.NewEngine(sim.Options{
		Config: &cfg,
		Clock:  clock,
		Rand:   game.NewRand(cfg.Tick.Seed),
		Sink:   sink,
	})

	s, meta, err := repo.Load(ctx)
	switch {
	case errors.Is(err, save.ErrNotFound):
		logger.Printf("no save found, starting a new facility")
		return eng, nil
	case err != nil:
		return nil, err
	}

	eng.Restore(s)
	n := eng.CatchUp(clock.Now())
	logger.Printf("resumed save %s from %s, %d offline ticks", meta.SaveID, meta.SavedAt.Format(time.RFC3339), n)
	return eng, nil
}

type autosaver struct {
	mu     sync.Mutex
	repo   save.Repository
	clock  game.Clock
	every  time.Duration
	last   time.Time
	logger *log.Logger
}

func newAutosaver(repo save.Repository, clock game.Clock, every time.Duration, logger *log.Logger) *autosaver {
	return &autosaver{repo: repo, clock: clock, every: every, last: clock.Now(), logger: logger}
}

// maybeSave stores s when the autosave interval has passed. Failures are
// logged and retried on the next tick.
func (a *autosaver) maybeSave(s sim.State) {
	if a.every <= 0 {
		return
	}
	a.mu.Lock()
	due := a.clock.Now().Sub(a.last) >= a.every
	a.mu.Unlock()
	if !due {
		return
	}
	if err := a.save(context.Background(), s); err != nil {
		a.logger.Printf("autosave failed: %v", err)
	}
}

func (a *autosaver) save(ctx context.Context, s sim.State) error {
	if _, err := a.repo.Store(ctx, s); err != nil {
		return err
	}
	a.mu.Lock()
	a.last = a.clock.Now()
	a.mu.Unlock()
	return nil
}
