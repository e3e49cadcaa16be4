package main

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/passcheck/pkg/batch"
	"github.com/dmitrymomot/passcheck/pkg/config"
	"github.com/dmitrymomot/passcheck/pkg/file"
	"github.com/dmitrymomot/passcheck/pkg/logger"
	"github.com/dmitrymomot/passcheck/pkg/pwned"
)

const envPrefix = "PASSCHECK_"

// Config is read from PASSCHECK_* variables and .env files. Command line
// flags take precedence.
type Config struct {
	Input   string `env:"INPUT" envDefault:"passwords.txt"`
	Output  string `env:"OUTPUT" envDefault:"checked.txt"`
	LogFile string `env:"LOG_FILE" envDefault:"infos.log"`

	// Empty format and level follow Env.
	LogFormat string `env:"LOG_FORMAT"`
	LogLevel  string `env:"LOG_LEVEL"`
	Env       string `env:"ENV" envDefault:"development"`

	Concurrency   int    `env:"CONCURRENCY" envDefault:"1"`
	OnLookupError string `env:"ON_LOOKUP_ERROR" envDefault:"skip"`
	ReportFile    string `env:"REPORT_FILE"`
	MetricsFile   string `env:"METRICS_FILE"`

	PwnedURL     string        `env:"PWNED_URL" envDefault:"https://api.pwnedpasswords.com"`
	PwnedTimeout time.Duration `env:"PWNED_TIMEOUT" envDefault:"10s"`
	PwnedRetries int           `env:"PWNED_RETRIES" envDefault:"2"`
	PwnedPadding bool          `env:"PWNED_PADDING" envDefault:"false"`

	S3 S3Config `envPrefix:"S3_"`
}

// S3Config is used for s3:// input, output and report locations.
type S3Config struct {
	Region      string        `env:"REGION" envDefault:"us-east-1"`
	Endpoint    string        `env:"ENDPOINT"`
	AccessKeyID string        `env:"ACCESS_KEY_ID"`
	SecretKey   string        `env:"SECRET_KEY"`
	PathStyle   bool          `env:"PATH_STYLE"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

func loadConfig(environ map[string]string, envFiles ...string) (Config, error) {
	opts := []config.Option{config.WithPrefix(envPrefix)}
	if len(envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(envFiles...))
	}
	if environ != nil {
		opts = append(opts, config.WithEnvironment(environ))
	}

	var cfg Config
	if err := config.Load(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) policy() (batch.Policy, error) {
	return batch.ParsePolicy(c.OnLookupError)
}

func (c Config) loggerOptions() ([]logger.Option, error) {
	opts := []logger.Option{logger.WithEnvironment(c.Env, "passcheck")}

	if c.LogFormat != "" {
		f := logger.Format(c.LogFormat)
		if f != logger.FormatJSON && f != logger.FormatText {
			return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
		}
		opts = append(opts, logger.WithFormat(f))
	}

	if c.LogLevel != "" {
		lvl, err := logger.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(lvl))
	}

	return opts, nil
}

func (c Config) pwnedOptions(observer pwned.Observer) []pwned.Option {
	return []pwned.Option{
		pwned.WithBaseURL(c.PwnedURL),
		pwned.WithTimeout(c.PwnedTimeout),
		pwned.WithMaxRetries(c.PwnedRetries),
		pwned.WithPadding(c.PwnedPadding),
		pwned.WithObserver(observer),
	}
}

func (c Config) s3Config() file.S3Config {
	return file.S3Config{
		Region:         c.S3.Region,
		AccessKeyID:    c.S3.AccessKeyID,
		SecretKey:      c.S3.SecretKey,
		Endpoint:       c.S3.Endpoint,
		ForcePathStyle: c.S3.PathStyle,
	}
}
