package validator

import (
	"context"

	"github.com/dmitrymomot/passcheck/pkg/pwned"
)

// RangeLookup fetches every breach record sharing a 5-character hash prefix.
// *pwned.Client implements it.
type RangeLookup interface {
	Range(ctx context.Context, prefix string) ([]pwned.Record, error)
}

type pwnedRule struct {
	lookup RangeLookup
}

// Pwned rejects candidates whose SHA-1 digest is present in the breach corpus.
// Only the digest prefix leaves the process. Lookup errors are returned as-is
// so the chain can report them as infrastructure failures.
func Pwned(lookup RangeLookup) Rule {
	return pwnedRule{lookup: lookup}
}

func (pwnedRule) Name() string { return RulePwned }

func (r pwnedRule) Check(ctx context.Context, candidate string) error {
	if r.lookup == nil {
		return ErrNilLookup
	}

	digest := pwned.Sum(candidate)
	records, err := r.lookup.Range(ctx, digest.Prefix())
	if err != nil {
		return err
	}

	if pwned.Contains(records, digest.Suffix()) {
		return &Failure{
			Rule:           RulePwned,
			Message:        "password has been pwned",
			TranslationKey: "validation.password_pwned",
		}
	}

	return nil
}
