package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/notekit/binder"
	"github.com/dmitrymomot/notekit/handler"
	"github.com/dmitrymomot/notekit/internal/notes"
	"github.com/dmitrymomot/notekit/internal/plan"
	"github.com/dmitrymomot/notekit/internal/policy"
	"github.com/dmitrymomot/notekit/internal/tenant"
	"github.com/dmitrymomot/notekit/internal/users"
	"github.com/dmitrymomot/notekit/pkg/validator"
)

// Client facing errors.
var (
	ErrUnauthorized            = handler.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	ErrInsufficientPermissions = handler.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	ErrNotesLimitReached       = handler.NewHTTPError(http.StatusForbidden, "Notes limit reached")
	ErrUsersLimitReached       = handler.NewHTTPError(http.StatusForbidden, "Users limit reached")
	ErrLastOwner               = handler.NewHTTPError(http.StatusBadRequest, "Tenant must keep at least one owner")
	ErrCannotDeleteSelf        = handler.NewHTTPError(http.StatusBadRequest, "Cannot delete your own account")
	ErrNoteNotFound            = handler.NewHTTPError(http.StatusNotFound, "Note not found")
	ErrUserNotFound            = handler.NewHTTPError(http.StatusNotFound, "User not found")
	ErrProfileNotFound         = handler.NewHTTPError(http.StatusNotFound, "Profile not found")
	ErrNoOp                    = handler.NewHTTPError(http.StatusBadRequest, "No valid updates provided")
	ErrInvalidRequestBody      = handler.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	ErrInvalidQuery            = handler.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	ErrInvalidPath             = handler.NewHTTPError(http.StatusBadRequest, "Invalid path parameter")
	ErrUnsupportedMediaType    = handler.NewHTTPError(http.StatusUnsupportedMediaType, "Content-Type must be application/json")
)

var featureMessages = map[plan.Feature]string{
	plan.FeaturePrivateNotes: "Private notes require a Pro or Enterprise subscription",
	plan.FeatureTags:         "Tags require a Pro or Enterprise subscription",
	plan.FeatureExport:       "Export requires a Pro or Enterprise subscription",
	plan.FeatureAPI:          "API access requires an Enterprise subscription",
}

// DenialObserver records policy denials.
type DenialObserver interface {
	ObservePolicyDenial(reason string)
}

// NewErrorMapper returns the error to HTTPError table of the API. obs may be
// nil.
func NewErrorMapper(obs DenialObserver) handler.ErrorMapper {
	return func(err error) handler.HTTPError {
		he, reason := mapError(err)
		if reason != "" && obs != nil {
			obs.ObservePolicyDenial(reason)
		}
		return he.WithCause(err)
	}
}

// mapError returns the client error for err and, for policy denials, the
// denial reason.
func mapError(err error) (handler.HTTPError, string) {
	var (
		he handler.HTTPError
		le *policy.LimitError
		fe *policy.FeatureError
	)

	switch {
	case errors.As(err, &he):
		return he, ""

	case errors.Is(err, validator.ErrValidationFailed):
		return handler.NewHTTPError(http.StatusBadRequest, validator.Extract(err).Error()), ""

	case errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType, ""
	case errors.Is(err, binder.ErrInvalidJSON):
		return ErrInvalidRequestBody, ""
	case errors.Is(err, binder.ErrInvalidQuery):
		return ErrInvalidQuery, ""
	case errors.Is(err, binder.ErrInvalidPath):
		return ErrInvalidPath, ""

	case errors.Is(err, tenant.ErrNoIdentity), errors.Is(err, tenant.ErrNoProfileInContext):
		return ErrUnauthorized, ""

	case errors.As(err, &le):
		if le.Reason == policy.ReasonUsersLimitReached {
			return ErrUsersLimitReached.WithDetails(
				fmt.Sprintf("Your plan allows %s users. Please upgrade your subscription.", le.Limit),
			), string(le.Reason)
		}
		return ErrNotesLimitReached.WithDetails(
			fmt.Sprintf("You have reached your limit of %s notes. Please upgrade your subscription.", le.Limit),
		), string(le.Reason)

	case errors.As(err, &fe):
		msg, ok := featureMessages[fe.Feature]
		if !ok {
			msg = "This feature is not available on your subscription"
		}
		return handler.NewHTTPError(http.StatusForbidden, msg), "FeatureNotAvailable"

	case errors.Is(err, policy.ErrInsufficientPermissions):
		return ErrInsufficientPermissions, string(policy.ReasonInsufficientPermissions)
	case errors.Is(err, policy.ErrLastOwner):
		return ErrLastOwner, string(policy.ReasonLastOwner)
	case errors.Is(err, policy.ErrCannotDeleteSelf):
		return ErrCannotDeleteSelf, string(policy.ReasonCannotDeleteSelf)

	case errors.Is(err, notes.ErrNoteNotFound):
		return ErrNoteNotFound, ""
	case errors.Is(err, users.ErrUserNotFound):
		return ErrUserNotFound, ""
	case errors.Is(err, tenant.ErrProfileNotFound):
		return ErrProfileNotFound, ""
	case errors.Is(err, users.ErrNoOp):
		return ErrNoOp, ""
	}

	return handler.ErrInternal, ""
}
