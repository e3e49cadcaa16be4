// Package validator implements the password validation chain.
//
// A Chain is an ordered list of Rule values. Validate runs them one by one
// and stops at the first rule that does not pass, so every rejected
// candidate carries exactly one Failure. The default order is
//
//	MinLength(8), Digit, SpecialChar, Uppercase, Lowercase, Pwned
//
// which keeps the only network-bound rule last.
//
// # Character classes
//
// Classification uses the unicode package. Digit means category Nd, letters
// are category L, and a special character is any rune that is neither.
// Length counts runes.
//
// # Errors
//
// Rules report rejection with a *Failure (which matches ErrValidationFailed
// under errors.Is). Any other error from a rule means the rule could not
// decide, and the chain wraps it with ErrInfrastructure:
//
//	outcome, err := chain.Validate(ctx, candidate)
//	switch {
//	case validator.IsInfrastructure(err):
//	    // lookup failed; not a verdict about the password
//	case outcome.Accepted():
//	    // safe
//	default:
//	    log.Info("rejected", "rule", outcome.Failure.Rule)
//	}
//
// The Pwned rule depends on the RangeLookup port so tests can substitute an
// in-memory fake for the HTTP client in package pwned.
package validator
