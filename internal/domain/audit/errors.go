package audit

import "household-finance/internal/apperr"

var ErrUnknownAction = apperr.New(apperr.KindInternal, "unknown_audit_action", "unknown audit action")
