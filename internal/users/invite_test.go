package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/email"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

func TestEmailInviter(t *testing.T) {
	t.Parallel()

	inv := users.Invitation{
		Profile:   tenant.Profile{ID: uuid.New(), Email: "bob@example.com", Role: rbac.RoleAdmin},
		InvitedBy: tenant.Profile{ID: uuid.New(), Email: "<alice>@example.com"},
	}

	t.Run("sends rendered email", func(t *testing.T) {
		t.Parallel()

		var sent email.SendEmailParams
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(email.SendEmailParams) }).
			Return(nil)

		err := users.NewEmailInviter(sender, "https://notes.example.com").SendInvitation(context.Background(), inv)
		require.NoError(t, err)

		assert.Equal(t, "bob@example.com", sent.SendTo)
		assert.Equal(t, "You have been invited to NoteKit", sent.Subject)
		assert.Equal(t, "invitation", sent.Tag)
		assert.Contains(t, sent.BodyHTML, "&lt;alice&gt;@example.com invited you")
		assert.Contains(t, sent.BodyHTML, "as admin")
		assert.Contains(t, sent.BodyHTML, `href="https://notes.example.com"`)
	})

	t.Run("wraps send failures", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("postmark down")
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(boom)

		err := users.NewEmailInviter(sender, "https://notes.example.com").SendInvitation(context.Background(), inv)
		assert.ErrorIs(t, err, boom)
	})
}
