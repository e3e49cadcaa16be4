// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps github.com/joho/godotenv (for .env files) and
// github.com/caarlos0/env/v11 (for struct tag parsing). The default ./.env
// is read once per process when present; additional files may be requested
// per call with WithEnvFiles. Values already in the environment win over
// values from files.
//
// # Usage
//
//	type Config struct {
//	    Input  string `env:"INPUT" envDefault:"passwords.txt"`
//	    Output string `env:"OUTPUT" envDefault:"checked.txt"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("PASSCHECK_")); err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Errors wrap one of ErrNilPointer, ErrLoadingEnvFile or ErrParsingConfig
// and can be matched with errors.Is.
package config
