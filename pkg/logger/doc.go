// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers so that every package names its log keys the
// same way.
//
// New selects a text or JSON handler, applies a level and static
// attributes, then wraps the handler so that ContextExtractor callbacks run
// on every record. Nothing is configured at
// import time: the binary builds its logger in main and passes it down.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "passcheck"),
//	    logger.WithOutput(logFile),
//	    logger.WithContextValue("run_id", runIDKey{}),
//	)
//
//	log.InfoContext(ctx, "password is not safe",
//	    logger.Seq(3),
//	    logger.Status("rejected"),
//	    logger.Rule("digit"),
//	    logger.Reason("password must contain at least one digit"),
//	)
//
// Helpers such as Error, Rule and Reason return an empty slog.Attr for
// zero input, and slog handlers skip empty attributes, so no nil checks are
// needed at call sites.
package logger
