package policy

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notekit/internal/plan"
)

var (
	ErrInsufficientPermissions = errors.New("policy: insufficient permissions")
	ErrFeatureNotAvailable     = errors.New("policy: feature not available on current plan")
	ErrLimitReached            = errors.New("policy: plan limit reached")
	ErrNotesLimitReached       = errors.New("policy: notes limit reached")
	ErrUsersLimitReached       = errors.New("policy: users limit reached")
	ErrCannotDeleteSelf        = errors.New("policy: cannot delete own account")
	ErrLastOwner               = errors.New("policy: tenant must keep at least one owner")
)

// LimitError reports a denied limit check together with the limit that
// applied. It matches ErrLimitReached and the resource specific sentinel.
type LimitError struct {
	Reason  Reason
	Limit   plan.Limit
	Current int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("policy: %s (limit %s, current %d)", e.Reason, e.Limit, e.Current)
}

func (e *LimitError) Unwrap() []error {
	return []error{ErrLimitReached, reasonErrors[e.Reason]}
}

// FeatureError reports a feature the actor's plan does not include.
// It matches ErrFeatureNotAvailable.
type FeatureError struct {
	Feature plan.Feature
	Plan    plan.Plan
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("policy: feature %s not available on plan %s", e.Feature, e.Plan)
}

func (e *FeatureError) Unwrap() error { return ErrFeatureNotAvailable }
