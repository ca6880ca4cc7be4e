package plan

import "errors"

// ErrInvalidPlan is returned by Parse for an unknown identifier.
var ErrInvalidPlan = errors.New("plan: invalid subscription plan")
