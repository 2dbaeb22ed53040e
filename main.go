// Command bgclear makes near-gray and near-white background pixels of PNG
// files transparent, overwriting each file in place.
//
// The batch is either a built-in profile (BGCLEAR_PROFILE) or a YAML
// manifest (BGCLEAR_MANIFEST). Per-file failures are reported and skipped;
// they never change the exit status.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bgclear/batch"
	"bgclear/core"
	"bgclear/db"
	"bgclear/logging"
)

func main() {
	os.Exit(run(os.Stdout))
}

func run(stdout io.Writer) int {
	loaded, err := core.LoadEnvFile(".env")
	if err != nil {
		// Logger isn't initialized yet
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return core.ExitCodeError
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", core.GetErrorCode(err), err)
		return core.ExitCodeError
	}

	defaultLevel := zapcore.InfoLevel
	if cfg.DevMode {
		defaultLevel = zapcore.DebugLevel
	}
	logger := logging.NewLogger(logging.Options{
		Development: cfg.DevMode,
		Level:       logging.ParseLogLevelString(cfg.LogLevel, defaultLevel),
		FilePath:    cfg.LogFile,
		Rotation:    logging.DefaultFileWriterConfig(),
	})
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("version", core.VersionInfo()),
		zap.Bool("env_file", loaded),
		zap.String("profile", cfg.Profile),
		zap.String("manifest", cfg.ManifestPath),
		zap.String("base_dir", cfg.BaseDir),
		zap.Bool("history", cfg.HistoryEnabled()),
		zap.String("pprof", cfg.PprofMode),
	)

	if cfg.PprofMode != core.PprofOff {
		defer startProfiling(cfg).Stop()
	}

	plan, err := loadPlan(cfg)
	if err != nil {
		logger.Error("Failed to load batch", zap.Error(err))
		return core.ExitCodeError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var signalExit atomic.Int32
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Warn("Received signal, stopping after the current file", zap.String("signal", sig.String()))
			if sig == syscall.SIGTERM {
				signalExit.Store(core.ExitCodeSIGTERM)
			} else {
				signalExit.Store(core.ExitCodeSIGINT)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := plan.Options(cfg.BaseDir)
	opts.RunID = uuid.NewString()

	logger.Infof("Loaded batch %s with %d files", plan.Name, len(plan.Jobs))
	for _, job := range plan.Jobs {
		logger.Debug("Queued file", zap.String("path", job.Path), zap.String("output", job.Output))
	}

	reporter := batch.NewReporter(stdout)
	observers := []batch.Observer{reporter}

	var history *db.HistoryStore
	if cfg.HistoryEnabled() {
		history = openHistory(ctx, cfg.HistoryDBPath, opts.RunID, plan, logger)
		if history != nil {
			defer history.Close()
			observers = append(observers, history)
		}
	}

	runner, err := batch.NewRunner(opts, logger.Named("batch").Zap(), observers...)
	if err != nil {
		logger.Error("Failed to create runner", zap.Error(err))
		return core.ExitCodeError
	}

	summary := runner.Run(ctx, plan.Jobs)
	reporter.PrintSummary(summary)

	if history != nil {
		if err := history.FinishRun(context.WithoutCancel(ctx), summary); err != nil {
			logger.Warn("Failed to record run totals", zap.Error(err))
		}
	}

	cancel()
	code := exitCode(summary.Interrupted, int(signalExit.Load()))
	if code != core.ExitCodeSuccess {
		logger.Warn("Exiting early", zap.Int("exit_code", code), zap.String("reason", core.ExitCodeName(code)))
	}
	return code
}

// exitCode maps the run outcome to a process exit code. A signal received
// while the last file was in flight still counts, even though no job was skipped.
func exitCode(interrupted bool, signalCode int) int {
	if signalCode != 0 {
		return signalCode
	}
	if interrupted {
		return core.ExitCodeSIGINT
	}
	return core.ExitCodeSuccess
}

// openHistory opens the history store and records the run start. It returns
// nil when either step fails; the batch then runs without history.
func openHistory(ctx context.Context, path, runID string, plan batch.Plan, logger *logging.Logger) *db.HistoryStore {
	history, err := db.OpenHistory(path, logger.Zap())
	if err != nil {
		logger.Warn("Run history disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	if err := history.BeginRun(ctx, runID, plan, time.Now()); err != nil {
		logger.Warn("Run history disabled", zap.String("path", path), zap.Error(err))
		history.Close()
		return nil
	}
	return history
}

// loadPlan resolves the manifest when one is configured, else the named profile.
func loadPlan(cfg *core.Config) (batch.Plan, error) {
	if cfg.UsesManifest() {
		m, err := batch.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return batch.Plan{}, err
		}
		return m.Plan()
	}

	p, err := batch.LookupProfile(cfg.Profile)
	if err != nil {
		return batch.Plan{}, err
	}
	return p.Plan()
}

func startProfiling(cfg *core.Config) interface{ Stop() } {
	mode := profile.CPUProfile
	if cfg.PprofMode == core.PprofMem {
		mode = profile.MemProfile
	}
	return profile.Start(mode, profile.ProfilePath(cfg.PprofDir), profile.NoShutdownHook, profile.Quiet)
}
