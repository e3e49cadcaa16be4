// Command passcheck checks a password list against strength rules and the
// Pwned Passwords breach corpus.
//
// Accepted passwords are written to the output file, one per line. Every
// candidate is logged with its line number and verdict, and rejections are
// echoed to stdout.
//
// Configuration comes from PASSCHECK_* environment variables (and .env
// files); flags override them:
//
//	passcheck --input passwords.txt --output checked.txt --log-file infos.log
//	passcheck -i s3://lists/passwords.txt -o s3://lists/checked.txt -c 8
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(nil, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "passcheck:", err)
		}
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. A nil environ reads the process environment.
func newRootCmd(environ map[string]string, stdout, stderr io.Writer) *cobra.Command {
	var (
		flags    Config
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:           "passcheck",
		Short:         "Check passwords against strength rules and the Pwned Passwords corpus",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(environ, envFiles...)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), &cfg, flags)
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Input, "input", "i", "", "password list, a path or s3://bucket/key (env PASSCHECK_INPUT)")
	f.StringVarP(&flags.Output, "output", "o", "", "where accepted passwords go (env PASSCHECK_OUTPUT)")
	f.StringVar(&flags.LogFile, "log-file", "", `log destination, "-" for stderr (env PASSCHECK_LOG_FILE)`)
	f.StringVar(&flags.LogFormat, "log-format", "", "text or json (env PASSCHECK_LOG_FORMAT)")
	f.StringVar(&flags.LogLevel, "log-level", "", "debug, info, warn or error (env PASSCHECK_LOG_LEVEL)")
	f.IntVarP(&flags.Concurrency, "concurrency", "c", 0, "candidates checked in parallel (env PASSCHECK_CONCURRENCY)")
	f.StringVar(&flags.OnLookupError, "on-lookup-error", "", "skip or abort when the breach lookup fails (env PASSCHECK_ON_LOOKUP_ERROR)")
	f.StringVar(&flags.ReportFile, "report", "", "write a YAML run report (env PASSCHECK_REPORT_FILE)")
	f.StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format (env PASSCHECK_METRICS_FILE)")
	f.StringVar(&flags.PwnedURL, "pwned-url", "", "range API base URL (env PASSCHECK_PWNED_URL)")
	f.DurationVar(&flags.PwnedTimeout, "pwned-timeout", 0, "timeout per range request (env PASSCHECK_PWNED_TIMEOUT)")
	f.IntVar(&flags.PwnedRetries, "pwned-retries", 0, "retries for transient lookup failures (env PASSCHECK_PWNED_RETRIES)")
	f.BoolVar(&flags.PwnedPadding, "pwned-padding", false, "request padded range responses (env PASSCHECK_PWNED_PADDING)")
	f.StringSliceVar(&envFiles, "env-file", nil, "extra .env files to load")

	return cmd
}

func applyFlags(fs *pflag.FlagSet, cfg *Config, f Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	set("input", func() { cfg.Input = f.Input })
	set("output", func() { cfg.Output = f.Output })
	set("log-file", func() { cfg.LogFile = f.LogFile })
	set("log-format", func() { cfg.LogFormat = f.LogFormat })
	set("log-level", func() { cfg.LogLevel = f.LogLevel })
	set("concurrency", func() { cfg.Concurrency = f.Concurrency })
	set("on-lookup-error", func() { cfg.OnLookupError = f.OnLookupError })
	set("report", func() { cfg.ReportFile = f.ReportFile })
	set("metrics-file", func() { cfg.MetricsFile = f.MetricsFile })
	set("pwned-url", func() { cfg.PwnedURL = f.PwnedURL })
	set("pwned-timeout", func() { cfg.PwnedTimeout = f.PwnedTimeout })
	set("pwned-retries", func() { cfg.PwnedRetries = f.PwnedRetries })
	set("pwned-padding", func() { cfg.PwnedPadding = f.PwnedPadding })
}
