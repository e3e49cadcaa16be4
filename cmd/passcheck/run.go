package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/passcheck/pkg/batch"
	"github.com/dmitrymomot/passcheck/pkg/file"
	"github.com/dmitrymomot/passcheck/pkg/logger"
	"github.com/dmitrymomot/passcheck/pkg/metrics"
	"github.com/dmitrymomot/passcheck/pkg/pwned"
	"github.com/dmitrymomot/passcheck/pkg/validator"
)

// reportedError has already been shown to the user on stderr.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// run executes one batch. Accepted passwords are buffered and written to the
// output only after every candidate was checked, so a failed run never
// leaves a partial output file behind.
func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	policy, err := cfg.policy()
	if err != nil {
		return err
	}
	logOpts, err := cfg.loggerOptions()
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLog(cfg.LogFile, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.New(append(logOpts,
		logger.WithOutput(logOut),
		logger.WithAttr(slog.String("input", cfg.Input)),
		logger.WithContextValue("run_id", batch.RunIDKey{}),
	)...)

	collector := metrics.New()
	client, err := pwned.NewClient(cfg.pwnedOptions(func(r pwned.LookupResult) {
		collector.ObserveLookup(r.StatusCode, r.Duration, r.Error)
		log.Debug("breach lookup",
			slog.String("prefix", r.Prefix),
			slog.Int("attempt", r.Attempt),
			slog.Int("status_code", r.StatusCode),
			logger.Count("records", r.Records),
			logger.Duration(r.Duration),
			logger.Error(r.Error),
		)
	})...)
	if err != nil {
		return err
	}

	resolver := file.NewResolver(file.NewLocalStorage(), cfg.s3Config(), file.WithS3Timeout(cfg.S3.Timeout))

	src, err := openInput(ctx, resolver, cfg.Input)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			fmt.Fprintf(stderr, "No such file: %s\n", cfg.Input)
		} else {
			fmt.Fprintf(stderr, "Cannot read %s: %v\n", cfg.Input, err)
		}
		log.ErrorContext(ctx, "password source unavailable",
			slog.String("input", cfg.Input),
			logger.Error(err),
		)
		return &reportedError{err: fmt.Errorf("%w: %w", batch.ErrSourceUnavailable, err)}
	}
	defer src.Close()

	out, outPath, err := resolver.Resolve(ctx, cfg.Output)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(validator.NewDefaultChain(client),
		batch.WithLogger(log),
		batch.WithConcurrency(cfg.Concurrency),
		batch.WithPolicy(policy),
		batch.WithRecorder(collector),
		batch.WithResultHook(func(res batch.Result) {
			printResult(stdout, res)
		}),
	)

	var accepted bytes.Buffer
	report, runErr := runner.Run(ctx, src, &accepted)
	if runErr == nil {
		if err := out.Write(ctx, outPath, &accepted); err != nil {
			log.ErrorContext(ctx, "cannot write accepted passwords",
				slog.String("output", cfg.Output),
				logger.Error(err),
			)
			runErr = fmt.Errorf("%w: %w", batch.ErrOutputFailed, err)
		}
	}

	if cfg.ReportFile != "" {
		if err := writeReport(ctx, resolver, cfg.ReportFile, report); err != nil {
			log.ErrorContext(ctx, "cannot write report", logger.Error(err))
			runErr = errors.Join(runErr, err)
		}
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteTextfile(cfg.MetricsFile); err != nil {
			log.ErrorContext(ctx, "cannot write metrics", logger.Error(err))
			runErr = errors.Join(runErr, err)
		}
	}

	log.Info("run complete",
		logger.RunID(report.RunID),
		logger.Group("counts",
			slog.Int("accepted", report.Accepted),
			slog.Int("rejected", report.Rejected),
			slog.Int("failed", report.Failed),
		),
		slog.Bool("aborted", report.Aborted),
		logger.Error(runErr),
	)

	return runErr
}

func openLog(path string, fallback io.Writer) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return fallback, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openInput(ctx context.Context, resolver *file.Resolver, uri string) (io.ReadCloser, error) {
	storage, path, err := resolver.Resolve(ctx, uri)
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, path)
}

func writeReport(ctx context.Context, resolver *file.Resolver, uri string, report *batch.Report) error {
	data, err := report.YAML()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	storage, path, err := resolver.Resolve(ctx, uri)
	if err != nil {
		return err
	}
	return storage.Write(ctx, path, bytes.NewReader(data))
}

// printResult echoes every verdict that is not "safe" to the terminal.
func printResult(w io.Writer, res batch.Result) {
	switch res.Status {
	case batch.StatusRejected:
		fmt.Fprintf(w, "Password no. %d is not safe. %s\n", res.Seq, capitalize(res.Failure.Message))
	case batch.StatusFailed:
		fmt.Fprintf(w, "Password no. %d could not be checked: %v\n", res.Seq, res.Err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
