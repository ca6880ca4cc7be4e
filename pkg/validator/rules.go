package validator

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

// Required fails when value is empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: field + " is required"},
	}
}

// MaxLen fails when value has more than n characters.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters long", field, n)},
	}
}

// ValidEmail fails unless value is a bare address with a dotted domain.
// Empty values pass; combine with Required.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return strings.Contains(domain, ".")
		},
		Error: ValidationError{Field: field, Message: field + " must be a valid email address"},
	}
}

// OneOf fails unless value is one of options.
func OneOf[T comparable](field string, value T, options ...T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(options, value) },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s must be one of %v", field, options)},
	}
}

// MaxItems fails when the slice has more than n elements.
func MaxItems[T any](field string, value []T, n int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s must contain at most %d items", field, n)},
	}
}

// Range fails unless min <= value <= max.
func Range(field string, value, min, max int) Rule {
	return Rule{
		Check: func() bool { return value >= min && value <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("%s must be between %d and %d", field, min, max)},
	}
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	if cond {
		return rule
	}
	return Rule{Check: func() bool { return true }}
}
