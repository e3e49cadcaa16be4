package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/passcheck/pkg/logger"
	"github.com/dmitrymomot/passcheck/pkg/validator"
)

// Status of a single candidate after a run.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusFailed means no verdict could be reached (breach lookup failed).
	StatusFailed Status = "failed"
)

// Policy decides what happens to the run when a candidate cannot be checked.
type Policy string

const (
	// PolicySkip logs the candidate as failed, leaves it out of the output
	// and keeps going.
	PolicySkip Policy = "skip"
	// PolicyAbort stops the run and writes no output.
	PolicyAbort Policy = "abort"
)

// ParsePolicy parses "skip" or "abort", ignoring case and surrounding spaces.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySkip, PolicyAbort:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Validator is the chain a Runner drives. *validator.Chain implements it.
type Validator interface {
	Validate(ctx context.Context, candidate string) (validator.Outcome, error)
}

// Recorder receives one call per checked candidate. *metrics.Collector
// implements it.
type Recorder interface {
	ObserveCandidate(status, rule string)
}

// Result is the verdict for one input line.
type Result struct {
	Seq       int
	Candidate string
	Status    Status
	Failure   *validator.Failure
	Err       error
}

// RunIDKey is the context key under which Run stores the run id, so that a
// logger built with logger.WithContextValue("run_id", batch.RunIDKey{})
// tags every record.
type RunIDKey struct{}

type Option func(*Runner)

// WithLogger sets the logger for per-candidate outcome records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithConcurrency lets up to n candidates be validated at once. Results are
// still logged and written in input order. Default is 1.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithPolicy sets what happens when a candidate cannot be checked.
func WithPolicy(p Policy) Option {
	return func(r *Runner) {
		if p != "" {
			r.policy = p
		}
	}
}

func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithResultHook is called for every checked candidate, in input order.
func WithResultHook(fn func(Result)) Option {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// Runner feeds a password list through a Validator and collects the
// accepted passwords.
type Runner struct {
	validator   Validator
	log         *slog.Logger
	concurrency int
	policy      Policy
	recorder    Recorder
	onResult    func(Result)
	runID       string
}

func NewRunner(v Validator, opts ...Option) *Runner {
	r := &Runner{
		validator:   v,
		log:         logger.Discard(),
		concurrency: 1,
		policy:      PolicySkip,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.log = r.log.With(logger.Component("batch"))
	return r
}

// Run reads candidates from src, validates each one and writes the accepted
// ones to dst. Nothing is written to dst when the source cannot be read or
// the run is aborted. The returned report is never nil.
func (r *Runner) Run(ctx context.Context, src io.Reader, dst io.Writer) (*Report, error) {
	report := &Report{RunID: r.runID, StartedAt: time.Now().UTC()}
	ctx = context.WithValue(ctx, RunIDKey{}, r.runID)

	candidates, err := ReadCandidates(src)
	if err != nil {
		r.log.ErrorContext(ctx, "cannot read password source", logger.Error(err))
		return report, err
	}

	results, runErr := r.validateAll(ctx, candidates)
	for _, res := range results {
		if res.Status == "" {
			continue
		}
		report.add(res)
		r.logResult(ctx, res)
		if r.recorder != nil {
			rule := ""
			if res.Failure != nil {
				rule = res.Failure.Rule
			}
			r.recorder.ObserveCandidate(string(res.Status), rule)
		}
		if r.onResult != nil {
			r.onResult(res)
		}
	}
	report.Duration = time.Since(report.StartedAt)

	if runErr != nil {
		report.Aborted = true
		r.log.ErrorContext(ctx, "batch aborted",
			logger.Count("checked", report.Total),
			logger.Count("total", len(candidates)),
			logger.Error(runErr),
		)
		return report, fmt.Errorf("%w: %w", ErrAborted, runErr)
	}

	if err := WriteAccepted(dst, results); err != nil {
		r.log.ErrorContext(ctx, "cannot write accepted passwords", logger.Error(err))
		return report, err
	}

	r.log.InfoContext(ctx, "batch finished",
		logger.Count("total", report.Total),
		logger.Count("accepted", report.Accepted),
		logger.Count("rejected", report.Rejected),
		logger.Count("failed", report.Failed),
		logger.Duration(report.Duration),
	)

	return report, nil
}

func (r *Runner) validateAll(ctx context.Context, candidates []string) ([]Result, error) {
	results := make([]Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, candidate := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, err := r.validator.Validate(gctx, candidate)
			if err != nil && gctx.Err() != nil {
				// the run is stopping, this candidate was never really checked
				return nil
			}

			res := Result{Seq: i + 1, Candidate: candidate}
			switch {
			case err != nil:
				res.Status = StatusFailed
				res.Err = err
			case outcome.Accepted():
				res.Status = StatusAccepted
			default:
				res.Status = StatusRejected
				res.Failure = outcome.Failure
			}
			results[i] = res

			if err != nil && r.policy == PolicyAbort {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return results, err
}

func (r *Runner) logResult(ctx context.Context, res Result) {
	switch res.Status {
	case StatusAccepted:
		r.log.InfoContext(ctx, "password is safe",
			logger.Seq(res.Seq),
			logger.Status(string(res.Status)),
		)
	case StatusRejected:
		r.log.InfoContext(ctx, "password is not safe",
			logger.Seq(res.Seq),
			logger.Status(string(res.Status)),
			logger.Rule(res.Failure.Rule),
			logger.Reason(res.Failure.Message),
		)
	case StatusFailed:
		level := slog.LevelWarn
		if r.policy == PolicyAbort {
			level = slog.LevelError
		}
		r.log.Log(ctx, level, "password could not be checked",
			logger.Seq(res.Seq),
			logger.Status(string(res.Status)),
			logger.Error(res.Err),
			slog.Bool("lookup_failed", errors.Is(res.Err, validator.ErrInfrastructure)),
		)
	}
}
