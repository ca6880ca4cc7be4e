package plan_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/internal/plan"
)

func TestLimitsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		plan     plan.Plan
		maxNotes plan.Limit
		maxUsers plan.Limit
		features plan.FeatureSet
	}{
		{plan.Free, 5, 1, plan.FeatureSet{}},
		{plan.Pro, 100, 5, plan.FeatureSet{PrivateNotes: true, Tags: true, Export: true}},
		{plan.Enterprise, plan.Unlimited, plan.Unlimited, plan.FeatureSet{PrivateNotes: true, Tags: true, Export: true, API: true}},
	}
	for _, tt := range tests {
		t.Run(tt.plan.String(), func(t *testing.T) {
			t.Parallel()
			l := plan.LimitsFor(tt.plan)
			assert.Equal(t, tt.maxNotes, l.MaxNotes)
			assert.Equal(t, tt.maxUsers, l.MaxUsers)
			assert.Equal(t, tt.features, l.Features)
			assert.Equal(t, l, plan.LimitsFor(tt.plan), "catalog lookups are deterministic")
		})
	}
}

func TestLimitsFor_UnknownPlanFallsBackToFree(t *testing.T) {
	t.Parallel()

	for _, p := range []plan.Plan{"", "gold", "PRO", "enterprise "} {
		assert.Equal(t, plan.LimitsFor(plan.Free), plan.LimitsFor(p), "plan %q", p)
	}
}

func TestFeaturesAreMonotonicAcrossTiers(t *testing.T) {
	t.Parallel()

	plans := plan.All()
	for i := 1; i < len(plans); i++ {
		lower, higher := plan.LimitsFor(plans[i-1]), plan.LimitsFor(plans[i])
		for _, f := range plan.Features() {
			if lower.HasFeature(f) {
				assert.True(t, higher.HasFeature(f), "%s has %s but %s does not", plans[i-1], f, plans[i])
			}
		}
		assert.True(t, higher.MaxNotes.IsUnlimited() || higher.MaxNotes >= lower.MaxNotes)
		assert.True(t, higher.MaxUsers.IsUnlimited() || higher.MaxUsers >= lower.MaxUsers)
	}
}

func TestLimit_Allows(t *testing.T) {
	t.Parallel()

	assert.True(t, plan.Limit(5).Allows(4))
	assert.False(t, plan.Limit(5).Allows(5), "a count at the limit leaves no room")
	assert.False(t, plan.Limit(5).Allows(6))
	assert.False(t, plan.Limit(0).Allows(0))
	assert.True(t, plan.Unlimited.Allows(0))
	assert.True(t, plan.Unlimited.Allows(1<<62))
}

func TestLimit_JSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(plan.LimitsFor(plan.Enterprise))
	require.NoError(t, err)
	assert.JSONEq(t, `{"maxNotes":null,"maxUsers":null,"features":{"privateNotes":true,"tags":true,"export":true,"api":true}}`, string(raw))

	raw, err = json.Marshal(plan.LimitsFor(plan.Free))
	require.NoError(t, err)
	assert.JSONEq(t, `{"maxNotes":5,"maxUsers":1,"features":{"privateNotes":false,"tags":false,"export":false,"api":false}}`, string(raw))

	var l plan.Limits
	require.NoError(t, json.Unmarshal([]byte(`{"maxNotes":null,"maxUsers":3}`), &l))
	assert.True(t, l.MaxNotes.IsUnlimited())
	assert.Equal(t, plan.Limit(3), l.MaxUsers)
}

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := plan.Parse(" Pro")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, p)

	_, err = plan.Parse("platinum")
	assert.ErrorIs(t, err, plan.ErrInvalidPlan)
	assert.False(t, plan.Plan("").Valid())
}
