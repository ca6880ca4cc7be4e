package policy

import "github.com/dmitrymomot/notekit/internal/plan"

// Reason explains a denied decision.
type Reason string

const (
	ReasonNotesLimitReached       Reason = "NotesLimitReached"
	ReasonUsersLimitReached       Reason = "UsersLimitReached"
	ReasonCannotDeleteSelf        Reason = "CannotDeleteSelf"
	ReasonInsufficientPermissions Reason = "InsufficientPermissions"
	ReasonLastOwner               Reason = "LastOwner"
)

var reasonErrors = map[Reason]error{
	ReasonNotesLimitReached:       ErrNotesLimitReached,
	ReasonUsersLimitReached:       ErrUsersLimitReached,
	ReasonCannotDeleteSelf:        ErrCannotDeleteSelf,
	ReasonInsufficientPermissions: ErrInsufficientPermissions,
	ReasonLastOwner:               ErrLastOwner,
}

// Decision is the outcome of a policy check. Limit and Current are set for
// limit checks only.
type Decision struct {
	Allowed bool
	Reason  Reason
	Limit   plan.Limit
	Current int64
}

// Err returns nil for an allowed decision. Denied limit checks produce a
// *LimitError, other denials the sentinel matching the reason.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotesLimitReached, ReasonUsersLimitReached:
		return &LimitError{Reason: d.Reason, Limit: d.Limit, Current: d.Current}
	}
	if err, ok := reasonErrors[d.Reason]; ok {
		return err
	}
	return ErrInsufficientPermissions
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

func limitDecision(current int64, limit plan.Limit, r Reason) Decision {
	d := Decision{Allowed: limit.Allows(current), Limit: limit, Current: current}
	if !d.Allowed {
		d.Reason = r
	}
	return d
}
