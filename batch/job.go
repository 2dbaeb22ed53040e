// Package batch runs the transparency filter over a fixed list of files,
// one at a time, and reports a per-file outcome.
package batch

import (
	"time"

	"bgclear/transparency"
)

// Job is one file to process. An empty Output means overwrite Path.
type Job struct {
	Path   string
	Output string
}

// Target returns the path the result is written to.
func (j Job) Target() string {
	if j.Output != "" {
		return j.Output
	}
	return j.Path
}

// Status is the outcome of processing one Job.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusNotFound  Status = "not_found"
	StatusFailed    Status = "failed"
)

// Result records what happened to one Job.
type Result struct {
	RunID    string
	Job      Job
	Status   Status
	Err      error
	Stats    transparency.Stats
	Duration time.Duration
}

// Summary aggregates the results of a run.
type Summary struct {
	RunID      string
	Results    []Result
	Processed  int
	NotFound   int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time

	// Interrupted is set when the context was cancelled before every job
	// started. Skipped counts the jobs that never ran.
	Interrupted bool
	Skipped     int
}

func (s *Summary) add(res Result) {
	s.Results = append(s.Results, res)
	switch res.Status {
	case StatusProcessed:
		s.Processed++
	case StatusNotFound:
		s.NotFound++
	case StatusFailed:
		s.Failed++
	}
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
