package batch

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bgclear/pngio"
	"bgclear/transparency"
)

var ErrNoPolicies = errors.New("batch: at least one policy is required")

// Observer is notified after each file. Observers run synchronously in
// registration order, so a slow observer slows the batch.
type Observer interface {
	OnResult(ctx context.Context, res Result)
}

// Options selects how files are filtered.
type Options struct {
	Chain        transparency.Chain
	ReplaceColor bool

	// BaseDir is prepended to relative job paths. Empty means the working directory.
	BaseDir string

	// RunID identifies the run in logs and history. Generated when empty.
	RunID string
}

// Runner processes jobs sequentially.
type Runner struct {
	opts      Options
	logger    *zap.Logger
	observers []Observer
}

// NewRunner returns a Runner. A nil logger discards log output.
func NewRunner(opts Options, logger *zap.Logger, observers ...Observer) (*Runner, error) {
	if len(opts.Chain) == 0 {
		return nil, ErrNoPolicies
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		opts:      opts,
		logger:    logger.With(zap.String("run_id", opts.RunID)),
		observers: observers,
	}, nil
}

// RunID returns the identifier stamped on every Result.
func (r *Runner) RunID() string {
	return r.opts.RunID
}

// Run processes jobs in order. A failing file never stops the batch; only
// cancellation of ctx does, and then the remaining jobs are not started.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	sum := Summary{RunID: r.opts.RunID, StartedAt: time.Now()}

	r.logger.Info("Batch started",
		zap.Int("files", len(jobs)),
		zap.Strings("policies", r.opts.Chain.Names()),
		zap.Bool("replace_color", r.opts.ReplaceColor),
	)

	// Observers still see results after an interrupt.
	notifyCtx := context.WithoutCancel(ctx)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			sum.Interrupted = true
			sum.Skipped = len(jobs) - i
			r.logger.Warn("Batch interrupted", zap.Int("skipped", sum.Skipped), zap.Error(err))
			break
		}

		res := r.Process(job)
		sum.add(res)
		for _, o := range r.observers {
			o.OnResult(notifyCtx, res)
		}
	}

	sum.FinishedAt = time.Now()
	r.logger.Info("Batch finished",
		zap.Int("processed", sum.Processed),
		zap.Int("not_found", sum.NotFound),
		zap.Int("failed", sum.Failed),
		zap.Duration("duration", sum.Duration()),
	)
	return sum
}

// Process handles a single job: existence check, decode, filter, write.
// It never panics on bad input and never returns an error; the outcome is
// in the Result.
func (r *Runner) Process(job Job) Result {
	start := time.Now()
	res := Result{RunID: r.opts.RunID, Job: job}

	defer func() {
		res.Duration = time.Since(start)
		r.logResult(res)
	}()

	src := r.resolve(job.Path)
	exists, err := pngio.Exists(src)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	if !exists {
		res.Status = StatusNotFound
		return res
	}

	img, err := pngio.Decode(src)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}

	nrgba := transparency.Normalize(img)
	res.Stats = transparency.ApplyChain(nrgba, r.opts.Chain, r.opts.ReplaceColor)

	if err := pngio.WriteFile(r.resolve(job.Target()), nrgba); err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}

	res.Status = StatusProcessed
	return res
}

func (r *Runner) resolve(path string) string {
	if r.opts.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.opts.BaseDir, path)
}

func (r *Runner) logResult(res Result) {
	fields := []zap.Field{
		zap.String("path", res.Job.Path),
		zap.String("status", string(res.Status)),
		zap.Duration("duration", res.Duration),
	}
	if res.Job.Output != "" {
		fields = append(fields, zap.String("output", res.Job.Output))
	}

	switch res.Status {
	case StatusProcessed:
		fields = append(fields,
			zap.Int("pixels", res.Stats.Total),
			zap.Int("cleared", res.Stats.Cleared),
			zap.Any("by_policy", res.Stats.ByPolicy),
		)
		r.logger.Info("File processed", fields...)
	case StatusNotFound:
		r.logger.Warn("File not found", fields...)
	default:
		r.logger.Error("File failed", append(fields, zap.Error(res.Err))...)
	}
}
