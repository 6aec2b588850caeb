package app

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"
	"household-finance/internal/auth"
	"household-finance/internal/config"
	"household-finance/internal/db"
	auditdomain "household-finance/internal/domain/audit"
	householddomain "household-finance/internal/domain/household"
	recurringdomain "household-finance/internal/domain/recurring"
	savingsdomain "household-finance/internal/domain/savings"
	shoppingdomain "household-finance/internal/domain/shopping"
	statsdomain "household-finance/internal/domain/stats"
	transactionsdomain "household-finance/internal/domain/transactions"
	userdomain "household-finance/internal/domain/user"
	auditrepo "household-finance/internal/repository/postgres/audit"
	householdrepo "household-finance/internal/repository/postgres/household"
	recurringrepo "household-finance/internal/repository/postgres/recurring"
	savingsrepo "household-finance/internal/repository/postgres/savings"
	shoppingrepo "household-finance/internal/repository/postgres/shopping"
	statsrepo "household-finance/internal/repository/postgres/stats"
	transactionsrepo "household-finance/internal/repository/postgres/transactions"
	userrepo "household-finance/internal/repository/postgres/user"
	"household-finance/internal/transport/httpserver"
	"household-finance/internal/transport/httpserver/handler"
	"household-finance/pkg/logger"
)

// App owns the process-wide resources: the database handle and the HTTP
// server built on top of it.
type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("app: initializing router")
	router := NewRouter(cfg, dbConn, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// NewRouter wires repositories, services and handlers over dbConn.
func NewRouter(cfg config.Config, dbConn *gorm.DB, log logger.Logger) http.Handler {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	households := householddomain.NewService(householdrepo.NewPostgres(dbConn), householddomain.Config{
		InviteCodeAttempts:     cfg.Household.InviteCodeAttempts,
		InvitationCodeAttempts: cfg.Household.InvitationCodeAttempts,
	})

	handlers := handler.New(handler.Services{
		Users:        userdomain.NewService(userrepo.NewPostgres(dbConn), hasher, tokens),
		Households:   households,
		Members:      households,
		Recurring:    recurringdomain.NewService(recurringrepo.NewPostgres(dbConn)),
		Transactions: transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn)),
		Savings:      savingsdomain.NewService(savingsrepo.NewPostgres(dbConn)),
		Shopping:     shoppingdomain.NewService(shoppingrepo.NewPostgres(dbConn)),
		Audit:        auditdomain.NewService(auditrepo.NewPostgres(dbConn)),
		Stats:        statsdomain.NewService(statsrepo.NewPostgres(dbConn)),
	}, log)

	return httpserver.NewRouter(cfg, handlers, tokens, log)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
