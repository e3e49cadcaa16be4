package validator

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Character classes are decided by the unicode package tables so that the
// digit, special, upper and lower rules agree with each other: a rune is
// special exactly when it is neither a letter (category L) nor a decimal
// digit (category Nd).

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}
	return false
}

// MinLength requires at least n characters. Characters are runes, not bytes.
func MinLength(n int) Rule {
	return predicate{
		name: RuleLength,
		check: func(s string) bool {
			return utf8.RuneCountInString(s) >= n
		},
		failure: Failure{
			Rule:           RuleLength,
			Message:        fmt.Sprintf("password must contain at least %d characters", n),
			TranslationKey: "validation.password_length",
			TranslationValues: map[string]any{
				"min_length": n,
			},
		},
	}
}

// Digit requires at least one Unicode decimal digit.
func Digit() Rule {
	return predicate{
		name: RuleDigit,
		check: func(s string) bool {
			return containsFunc(s, unicode.IsDigit)
		},
		failure: Failure{
			Rule:           RuleDigit,
			Message:        "password must contain at least one digit",
			TranslationKey: "validation.password_digit",
		},
	}
}

// SpecialChar requires a rune that is neither a letter nor a digit.
// Locale-specific letters such as 'ą' or 'ß' are letters, not special.
func SpecialChar() Rule {
	return predicate{
		name: RuleSpecialChar,
		check: func(s string) bool {
			return containsFunc(s, isSpecial)
		},
		failure: Failure{
			Rule:           RuleSpecialChar,
			Message:        "password must contain at least one special character",
			TranslationKey: "validation.password_special",
		},
	}
}

// Uppercase requires at least one uppercase letter.
func Uppercase() Rule {
	return predicate{
		name: RuleUppercase,
		check: func(s string) bool {
			return containsFunc(s, unicode.IsUpper)
		},
		failure: Failure{
			Rule:           RuleUppercase,
			Message:        "password must contain at least one uppercase letter",
			TranslationKey: "validation.password_uppercase",
		},
	}
}

// Lowercase requires at least one lowercase letter.
func Lowercase() Rule {
	return predicate{
		name: RuleLowercase,
		check: func(s string) bool {
			return containsFunc(s, unicode.IsLower)
		},
		failure: Failure{
			Rule:           RuleLowercase,
			Message:        "password must contain at least one lowercase letter",
			TranslationKey: "validation.password_lowercase",
		},
	}
}
