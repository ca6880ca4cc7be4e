// Package policy is the authorization decision engine.
//
// Every function is pure: the caller passes the actor's role, the plan whose
// limits apply and the current usage count, and gets back a decision. Nothing
// here reads storage or context.
//
// Three families of checks exist and never mix:
//
//   - limit checks compare a usage count with a plan limit using strict "<";
//   - feature checks read the plan's feature flags and ignore usage;
//   - role checks consult the rbac table and ignore the plan.
//
// The only crossover is CanChangePlan, which lets any user change their own
// plan regardless of role.
//
// A denied Decision is turned into an error by the caller with Decision.Err:
//
//	d := policy.CanCreateNote(count, actor.Plan)
//	if !d.Allowed {
//		return d.Err() // *policy.LimitError matching ErrNotesLimitReached
//	}
package policy
