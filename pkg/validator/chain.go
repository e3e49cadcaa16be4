package validator

import (
	"context"
	"fmt"
	"slices"
)

// Status is the verdict of a chain run.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Outcome is the result of validating one candidate.
// Failure is set only when Status is StatusRejected.
type Outcome struct {
	Status  Status
	Failure *Failure
}

func (o Outcome) Accepted() bool { return o.Status == StatusAccepted }

// DefaultMinLength is the minimum number of characters the default chain requires.
const DefaultMinLength = 8

// DefaultRules returns the standard rule order. Network-bound checks come
// last so malformed passwords never trigger a remote call.
func DefaultRules(lookup RangeLookup) []Rule {
	return []Rule{
		MinLength(DefaultMinLength),
		Digit(),
		SpecialChar(),
		Uppercase(),
		Lowercase(),
		Pwned(lookup),
	}
}

// Chain runs rules in order and stops at the first failure.
// It holds no mutable state and is safe for concurrent use.
type Chain struct {
	rules []Rule
}

// NewChain builds a chain that runs rules in the given order. Nil rules are dropped.
func NewChain(rules ...Rule) *Chain {
	clean := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r != nil {
			clean = append(clean, r)
		}
	}
	return &Chain{rules: clean}
}

// NewDefaultChain builds the standard six-rule chain backed by lookup.
func NewDefaultChain(lookup RangeLookup) *Chain {
	return NewChain(DefaultRules(lookup)...)
}

// Rules returns a copy of the ordered rule list.
func (c *Chain) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Validate runs the chain against candidate.
//
// A rejected candidate yields a StatusRejected outcome and a nil error.
// When a rule cannot reach a verdict the returned error wraps
// ErrInfrastructure and the outcome must be ignored.
func (c *Chain) Validate(ctx context.Context, candidate string) (Outcome, error) {
	for i, rule := range c.rules {
		if err := ctx.Err(); err != nil {
			return Outcome{}, fmt.Errorf("%w: rule %s: %w", ErrInfrastructure, rule.Name(), err)
		}

		err := rule.Check(ctx, candidate)
		if err == nil {
			continue
		}

		if f := ExtractFailure(err); f != nil {
			failure := *f
			failure.Index = i
			return Outcome{Status: StatusRejected, Failure: &failure}, nil
		}

		return Outcome{}, fmt.Errorf("%w: rule %s: %w", ErrInfrastructure, rule.Name(), err)
	}

	return Outcome{Status: StatusAccepted}, nil
}
