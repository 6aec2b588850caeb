package household

import "household-finance/internal/apperr"

var (
	ErrAlreadyMember           = apperr.New(apperr.KindConflict, "already_member", "already a member of a household")
	ErrInvalidCode             = apperr.New(apperr.KindNotFound, "invalid_code", "invalid invite code")
	ErrCodeGenerationExhausted = apperr.New(apperr.KindConflict, "code_generation_exhausted", "could not generate a unique code")
	ErrInviteCodeTaken         = apperr.New(apperr.KindConflict, "invite_code_taken", "invite code already taken, retry")
	ErrHouseholdNotFound       = apperr.New(apperr.KindNotFound, "household_not_found", "household not found")
	ErrNoHousehold             = apperr.New(apperr.KindValidation, "no_household", "user has no household")
	ErrNotOwner                = apperr.New(apperr.KindAuthorization, "not_owner", "only the owner can manage members")
	ErrNotAuthorized           = apperr.New(apperr.KindAuthorization, "not_authorized", "not authorized")
	ErrNotApproved             = apperr.New(apperr.KindAuthorization, "not_approved", "membership is awaiting approval")
	ErrMemberNotFound          = apperr.New(apperr.KindNotFound, "member_not_found", "member not found in this household")
	ErrOwnerMustStay           = apperr.New(apperr.KindConflict, "owner_must_stay", "owner cannot leave while other members remain")
	ErrInvalidCurrency         = apperr.New(apperr.KindValidation, "invalid_currency", "currency must be HUF, EUR or USD")

	ErrUnknownRecipient     = apperr.New(apperr.KindNotFound, "unknown_recipient", "no registered user with this email")
	ErrSelfInvite           = apperr.New(apperr.KindValidation, "self_invite", "cannot invite yourself")
	ErrAlreadyInHousehold   = apperr.New(apperr.KindConflict, "already_in_household", "user already belongs to a household")
	ErrDuplicatePending     = apperr.New(apperr.KindConflict, "duplicate_pending", "a pending invitation already exists")
	ErrInvitationNotFound   = apperr.New(apperr.KindNotFound, "invitation_not_found", "invitation not found")
	ErrInvitationNotPending = apperr.New(apperr.KindConflict, "invitation_not_pending", "invitation is no longer pending")
	ErrInvitationCodeTaken  = apperr.New(apperr.KindConflict, "invitation_code_taken", "invitation code already taken, retry")
)
