package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "hello"),
			validator.MaxLen("title", "hello", 5),
			validator.ValidEmail("email", "a@b.io"),
			validator.OneOf("role", "admin", "owner", "admin", "member"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects failures with deduplicated messages", func(t *testing.T) {
		t.Parallel()
		msg := "Title and content are required"
		err := validator.Apply(
			validator.Required("title", " ").WithMessage(msg),
			validator.Required("content", "").WithMessage(msg),
			validator.MaxLen("name", "toolong", 3),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		ve := validator.Extract(fmt.Errorf("wrapped: %w", err))
		require.Len(t, ve, 3)
		assert.True(t, ve.Has("content"))
		assert.False(t, ve.Has("email"))
		assert.Equal(t, []string{msg, "name must be at most 3 characters long"}, ve.Messages())
		assert.Equal(t, msg+"; name must be at most 3 characters long", err.Error())
	})

	t.Run("extract on foreign error", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, validator.Extract(errors.New("x")))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		ok    bool
	}{
		{"user@example.com", true},
		{"first.last@sub.example.org", true},
		{"", true},
		{"user@localhost", false},
		{"user@.com", false},
		{"@example.com", false},
		{"Name <user@example.com>", false},
		{"plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.ValidEmail("email", tt.value))
			assert.Equal(t, tt.ok, err == nil)
		})
	}
}

func TestWhenAndRange(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.When(false, validator.Required("x", ""))))
	assert.Error(t, validator.Apply(validator.When(true, validator.Required("x", ""))))
	assert.NoError(t, validator.Apply(validator.Range("limit", 10, 1, 100)))
	assert.Error(t, validator.Apply(validator.Range("limit", 101, 1, 100)))
	assert.Error(t, validator.Apply(validator.MaxItems("tags", []string{"a", "b"}, 1)))
}
