package policy

import (
	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/pkg/rbac"
)

var roles = rbac.Default

// CanCreateNote allows a new note while the user's note count is below the
// plan's MaxNotes.
func CanCreateNote(currentNoteCountForUser int64, p plan.Plan) Decision {
	return limitDecision(currentNoteCountForUser, plan.LimitsFor(p).MaxNotes, ReasonNotesLimitReached)
}

// CanAddUser allows a new tenant member while the tenant's profile count is
// below MaxUsers of the owner's plan.
func CanAddUser(currentUserCountForTenant int64, ownerPlan plan.Plan) Decision {
	return limitDecision(currentUserCountForTenant, plan.LimitsFor(ownerPlan).MaxUsers, ReasonUsersLimitReached)
}

func CanUsePrivateNotes(p plan.Plan) bool { return plan.LimitsFor(p).Features.PrivateNotes }

func CanUseTags(p plan.Plan) bool { return plan.LimitsFor(p).Features.Tags }

func CanExport(p plan.Plan) bool { return plan.LimitsFor(p).Features.Export }

func CanUseAPI(p plan.Plan) bool { return plan.LimitsFor(p).Features.API }

// RequireFeature returns a *FeatureError when p does not include f.
func RequireFeature(p plan.Plan, f plan.Feature) error {
	if plan.LimitsFor(p).HasFeature(f) {
		return nil
	}
	return &FeatureError{Feature: f, Plan: p}
}

// CanManageUsers reports whether role may list, invite and edit members.
func CanManageUsers(role rbac.Role) bool {
	return roles.Has(role, rbac.PermUsersManage)
}

// CanChangeRole reports whether role may grant or revoke roles.
func CanChangeRole(actingRole rbac.Role) bool {
	return roles.Has(actingRole, rbac.PermUsersChangeRole)
}

// CanChangePlan reports whether a user may change a plan: managers may
// change anyone's plan, everyone may change their own.
func CanChangePlan(actingRole rbac.Role, isSelf bool) bool {
	return isSelf || roles.Has(actingRole, rbac.PermPlanChange)
}

// CanDeleteUser denies self deletion first, then any role without the
// users.delete permission.
func CanDeleteUser(actingRole rbac.Role, targetIsActingUser bool) Decision {
	if targetIsActingUser {
		return deny(ReasonCannotDeleteSelf)
	}
	if !roles.Has(actingRole, rbac.PermUsersDelete) {
		return deny(ReasonInsufficientPermissions)
	}
	return allow()
}

// CanRemoveOwner guards the last owner of a tenant. newRole is the role the
// target would get, nil when the target is being deleted. Changes that do
// not take an owner away are always allowed.
func CanRemoveOwner(ownerCount int64, targetRole rbac.Role, newRole *rbac.Role) Decision {
	if targetRole != rbac.RoleOwner {
		return allow()
	}
	if newRole != nil && *newRole == rbac.RoleOwner {
		return allow()
	}
	if ownerCount <= 1 {
		return deny(ReasonLastOwner)
	}
	return allow()
}
