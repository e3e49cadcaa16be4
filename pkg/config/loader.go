package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

type options struct {
	envFiles    []string
	prefix      string
	environment map[string]string
}

// Option tunes a single Load call.
type Option func(*options)

// WithEnvFiles loads the given .env files before parsing. Unlike the default
// ./.env, a missing explicit file is an error. Variables already present in
// the process environment are never overwritten.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			if p != "" {
				o.envFiles = append(o.envFiles, p)
			}
		}
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "PASSCHECK_".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvironment parses from the given map instead of the process environment.
// Useful in tests.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environment = environ
	}
}

// Load populates v from environment variables based on its `env` and
// `envDefault` struct tags.
//
// The default .env file in the working directory is loaded once per
// process if it exists.
//
// Example:
//
//	type Config struct {
//		Input   string        `env:"INPUT" envDefault:"passwords.txt"`
//		Timeout time.Duration `env:"PWNED_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("PASSCHECK_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	if len(o.envFiles) > 0 {
		if err := godotenv.Load(o.envFiles...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}
