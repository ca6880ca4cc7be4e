// Package validator expresses input checks as declarative rules.
//
//	err := validator.Apply(
//		validator.Required("email", in.Email),
//		validator.ValidEmail("email", in.Email),
//		validator.MaxLen("title", in.Title, 255),
//	)
//
// Apply evaluates every rule and returns ValidationErrors listing the failures,
// or nil.
package validator

import (
	"errors"
	"slices"
	"strings"
)

// ErrValidationFailed matches any ValidationErrors through errors.Is.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError describes one failed rule.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is the error returned by Apply.
type ValidationErrors []ValidationError

// Error joins the distinct messages in rule order.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ErrValidationFailed.Error()
	}
	return strings.Join(ve.Messages(), "; ")
}

// Is makes errors.Is(err, ErrValidationFailed) true for any ValidationErrors.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

// Messages returns distinct messages in rule order.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, 0, len(ve))
	for _, e := range ve {
		if !slices.Contains(out, e.Message) {
			out = append(out, e.Message)
		}
	}
	return out
}

// Has reports whether field failed any rule.
func (ve ValidationErrors) Has(field string) bool {
	return slices.ContainsFunc(ve, func(e ValidationError) bool { return e.Field == field })
}

// Rule is a single deferred check.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// WithMessage replaces the rule's failure message.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// Apply executes rules and returns the failures, nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check() {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Extract returns the ValidationErrors inside err, or nil.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
