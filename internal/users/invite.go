package users

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/pkg/email"
)

// Invitation is a freshly invited member and who invited them.
type Invitation struct {
	Profile   tenant.Profile
	InvitedBy tenant.Profile
}

// Inviter delivers invitations.
type Inviter interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// EmailInviter renders the invitation template and sends it by email.
type EmailInviter struct {
	sender email.EmailSender
	appURL string
}

// NewEmailInviter creates an inviter that links recipients to appURL.
func NewEmailInviter(sender email.EmailSender, appURL string) *EmailInviter {
	return &EmailInviter{sender: sender, appURL: appURL}
}

func (i *EmailInviter) SendInvitation(ctx context.Context, inv Invitation) error {
	body, err := email.Render(ctx, invitationEmail(inv.InvitedBy.Email, inv.Profile.Role.String(), i.appURL))
	if err != nil {
		return fmt.Errorf("render invitation: %w", err)
	}
	if err := i.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   inv.Profile.Email,
		Subject:  "You have been invited to NoteKit",
		BodyHTML: body,
		Tag:      "invitation",
	}); err != nil {
		return fmt.Errorf("send invitation: %w", err)
	}
	return nil
}

func invitationEmail(inviter, role, appURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<p>%s invited you to join their organization on NoteKit as %s.</p>`+
				`<p><a href="%s">Sign in to accept the invitation</a></p>`,
			templ.EscapeString(inviter),
			templ.EscapeString(role),
			templ.EscapeString(string(templ.URL(appURL))),
		)
		return err
	})
}
