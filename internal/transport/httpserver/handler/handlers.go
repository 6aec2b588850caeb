package handler

import (
	"context"
	"net/http"

	auditdomain "household-finance/internal/domain/audit"
	householddomain "household-finance/internal/domain/household"
	recurringdomain "household-finance/internal/domain/recurring"
	savingsdomain "household-finance/internal/domain/savings"
	shoppingdomain "household-finance/internal/domain/shopping"
	statsdomain "household-finance/internal/domain/stats"
	transactionsdomain "household-finance/internal/domain/transactions"
	userdomain "household-finance/internal/domain/user"
	"household-finance/pkg/logger"
)

// MembershipResolver resolves the caller's household for data endpoints.
// Every call must read fresh state.
type MembershipResolver interface {
	RequireApproved(ctx context.Context, userID string) (*householddomain.Membership, error)
}

type Services struct {
	Users        *userdomain.Service
	Households   *householddomain.Service
	Members      MembershipResolver
	Recurring    *recurringdomain.Service
	Transactions *transactionsdomain.Service
	Savings      *savingsdomain.Service
	Shopping     *shoppingdomain.Service
	Audit        *auditdomain.Service
	Stats        *statsdomain.Service
}

type Handlers struct {
	Services
	log logger.Logger
}

func New(services Services, log logger.Logger) *Handlers {
	if services.Members == nil && services.Households != nil {
		services.Members = services.Households
	}
	return &Handlers{Services: services, log: log}
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
