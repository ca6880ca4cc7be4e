// Package plan is the static catalog of subscription plans: for every plan
// identifier it defines the note and user limits and the enabled features.
//
// The catalog is immutable and total: LimitsFor never fails and resolves any
// unknown identifier to the free plan.
package plan

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Plan identifies a subscription tier.
type Plan string

const (
	Free       Plan = "free"
	Pro        Plan = "pro"
	Enterprise Plan = "enterprise"
)

// All returns every plan ordered from the smallest to the largest tier.
func All() []Plan { return []Plan{Free, Pro, Enterprise} }

// Parse validates s as a plan identifier.
func Parse(s string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
	return p, nil
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case Free, Pro, Enterprise:
		return true
	}
	return false
}

func (p Plan) String() string { return string(p) }

// Feature is a plan-gated capability.
type Feature string

const (
	FeaturePrivateNotes Feature = "privateNotes"
	FeatureTags         Feature = "tags"
	FeatureExport       Feature = "export"
	FeatureAPI          Feature = "api"
)

// Features returns every feature flag in display order.
func Features() []Feature {
	return []Feature{FeaturePrivateNotes, FeatureTags, FeatureExport, FeatureAPI}
}

// Unlimited marks a limit without an upper bound.
const Unlimited Limit = -1

// Limit is a resource cap. Unlimited compares above any usage count and is
// encoded as JSON null.
type Limit int64

// Allows reports whether one more unit fits: current < limit, always true
// for Unlimited.
func (l Limit) Allows(current int64) bool {
	return l == Unlimited || current < int64(l)
}

// IsUnlimited reports whether l is the Unlimited sentinel.
func (l Limit) IsUnlimited() bool { return l == Unlimited }

func (l Limit) String() string {
	if l.IsUnlimited() {
		return "unlimited"
	}
	return strconv.FormatInt(int64(l), 10)
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if l.IsUnlimited() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(l), 10), nil
}

func (l *Limit) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = Unlimited
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*l = Limit(n)
	return nil
}

// FeatureSet is the set of features enabled for a plan.
type FeatureSet struct {
	PrivateNotes bool `json:"privateNotes"`
	Tags         bool `json:"tags"`
	Export       bool `json:"export"`
	API          bool `json:"api"`
}

// Has reports whether f is enabled.
func (fs FeatureSet) Has(f Feature) bool {
	switch f {
	case FeaturePrivateNotes:
		return fs.PrivateNotes
	case FeatureTags:
		return fs.Tags
	case FeatureExport:
		return fs.Export
	case FeatureAPI:
		return fs.API
	}
	return false
}

// Limits is the resource and feature envelope of a plan.
type Limits struct {
	MaxNotes Limit      `json:"maxNotes"`
	MaxUsers Limit      `json:"maxUsers"`
	Features FeatureSet `json:"features"`
}

// HasFeature reports whether f is enabled by these limits.
func (l Limits) HasFeature(f Feature) bool { return l.Features.Has(f) }

var catalog = map[Plan]Limits{
	Free: {
		MaxNotes: 5,
		MaxUsers: 1,
	},
	Pro: {
		MaxNotes: 100,
		MaxUsers: 5,
		Features: FeatureSet{PrivateNotes: true, Tags: true, Export: true},
	},
	Enterprise: {
		MaxNotes: Unlimited,
		MaxUsers: Unlimited,
		Features: FeatureSet{PrivateNotes: true, Tags: true, Export: true, API: true},
	},
}

// LimitsFor returns the limits of p, or the free limits for an unknown plan.
func LimitsFor(p Plan) Limits {
	if l, ok := catalog[p]; ok {
		return l
	}
	return catalog[Free]
}
