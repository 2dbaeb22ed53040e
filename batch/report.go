package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter prints one line per file and a closing summary. It implements Observer.
type Reporter struct {
	out  io.Writer
	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

// NewReporter writes to w. Colour follows fatih/color's terminal detection.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		out:  w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
}

// OnResult prints the outcome of one file.
func (r *Reporter) OnResult(_ context.Context, res Result) {
	switch res.Status {
	case StatusProcessed:
		target := ""
		if res.Job.Output != "" {
			target = " -> " + res.Job.Output
		}
		r.ok.Fprintf(r.out, "Processed: %s%s (%d/%d pixels cleared)\n",
			res.Job.Path, target, res.Stats.Cleared, res.Stats.Total)
	case StatusNotFound:
		r.warn.Fprintf(r.out, "Not found: %s\n", res.Job.Path)
	default:
		r.fail.Fprintf(r.out, "Error: %s: %v\n", res.Job.Path, res.Err)
	}
}

// PrintSummary prints the totals for a run.
func (r *Reporter) PrintSummary(s Summary) {
	line := fmt.Sprintf("Done: %d processed, %d not found, %d failed", s.Processed, s.NotFound, s.Failed)
	switch {
	case s.Interrupted:
		r.warn.Fprintf(r.out, "%s; interrupted, %d not started\n", line, s.Skipped)
	case s.Failed > 0:
		r.fail.Fprintln(r.out, line)
	default:
		fmt.Fprintln(r.out, line)
	}
}
