package validator

import (
	"context"
	"errors"
	"fmt"
)

// Rule names reported in Failure.Rule.
const (
	RuleLength      = "length"
	RuleDigit       = "digit"
	RuleSpecialChar = "special_char"
	RuleUppercase   = "uppercase"
	RuleLowercase   = "lowercase"
	RulePwned       = "pwned"
)

// Rule is a single pass/fail check over a candidate password.
//
// Check returns nil when the candidate passes, a *Failure when it does not,
// and any other error when no verdict could be reached. Implementations must
// be safe for concurrent use and must not keep per-candidate state.
type Rule interface {
	Name() string
	Check(ctx context.Context, candidate string) error
}

// Failure describes why a candidate was rejected. Exactly one Failure is
// recorded per rejected candidate: the first rule that did not pass.
type Failure struct {
	Rule              string
	Index             int
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Rule, f.Message)
}

// Is makes every Failure match ErrValidationFailed.
func (f *Failure) Is(target error) bool {
	return target == ErrValidationFailed
}

// predicate adapts a pure function into a Rule.
type predicate struct {
	name    string
	check   func(string) bool
	failure Failure
}

func (p predicate) Name() string { return p.name }

func (p predicate) Check(_ context.Context, candidate string) error {
	if p.check(candidate) {
		return nil
	}
	f := p.failure
	return &f
}

// ExtractFailure returns the *Failure wrapped in err, or nil.
func ExtractFailure(err error) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	return nil
}

// IsFailure reports whether err carries a rule Failure.
func IsFailure(err error) bool {
	return ExtractFailure(err) != nil
}

// IsInfrastructure reports whether a rule could not run to completion.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}
