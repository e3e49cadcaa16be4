// Package batch drives a password list through a validation chain.
//
// A Runner reads one candidate per line, validates each one and writes the
// accepted candidates to the output in input order. Every candidate gets one
// log record carrying its 1-based sequence number and status:
//
//	runner := batch.NewRunner(chain,
//	    batch.WithLogger(log),
//	    batch.WithConcurrency(4),
//	    batch.WithPolicy(batch.PolicySkip),
//	)
//	report, err := runner.Run(ctx, src, dst)
//
// Candidates whose breach lookup failed are neither accepted nor rejected.
// PolicySkip logs them as failed and leaves them out of the output.
// PolicyAbort stops the run with ErrAborted and writes nothing to dst.
package batch
