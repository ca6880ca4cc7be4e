package users

import (
	"strings"

	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/pkg/rbac"
	"github.com/dmitrymomot/notekit/pkg/validator"
)

// InviteInput is the invitation request. An empty role means member.
type InviteInput struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (in InviteInput) parse() (string, rbac.Role, error) {
	email := strings.TrimSpace(in.Email)
	role := rbac.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = rbac.RoleMember
	}

	err := validator.Apply(
		validator.Required("email", email).WithMessage("Email is required"),
		validator.ValidEmail("email", email).WithMessage("Invalid email address"),
		validator.OneOf("role", role, rbac.Roles()...).WithMessage("Invalid role"),
	)
	return email, role, err
}

// UpdateInput changes a member's role and/or plan.
type UpdateInput struct {
	Role *string `json:"role"`
	Plan *string `json:"subscription_plan"`
}

func (in UpdateInput) parse() (*rbac.Role, *plan.Plan, error) {
	var (
		role  *rbac.Role
		p     *plan.Plan
		rules []validator.Rule
	)
	if in.Role != nil && strings.TrimSpace(*in.Role) != "" {
		r, err := rbac.ParseRole(*in.Role)
		rules = append(rules, validator.Rule{
			Check: func() bool { return err == nil },
			Error: validator.ValidationError{Field: "role", Message: "Invalid role"},
		})
		role = &r
	}
	if in.Plan != nil && strings.TrimSpace(*in.Plan) != "" {
		pl, err := plan.Parse(*in.Plan)
		rules = append(rules, validator.Rule{
			Check: func() bool { return err == nil },
			Error: validator.ValidationError{Field: "subscription_plan", Message: "Invalid subscription plan"},
		})
		p = &pl
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, nil, err
	}
	return role, p, nil
}
