package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/fx"

	"github.com/artcove/artcove/internal/api"
	v1 "github.com/artcove/artcove/internal/api/v1"
	"github.com/artcove/artcove/internal/config"
	"github.com/artcove/artcove/internal/httpclient"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/paypal"
	"github.com/artcove/artcove/internal/repository/postgres"
	"github.com/artcove/artcove/internal/service"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// .env is optional; real deployments inject environment variables
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			providePostgres,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Provider clients
			providePayPalClient,

			// Repositories
			postgres.NewAccountRepository,
			postgres.NewPaymentRepository,

			// Services
			service.NewServiceParams,
			service.NewLedgerService,
			service.NewAccountService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func providePostgres(cfg *config.Configuration, log *logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, err
	}
	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "dbname", cfg.Postgres.DBName)
	return db, nil
}

func providePayPalClient(cfg *config.Configuration, httpClient httpclient.Client, log *logger.Logger) paypal.Client {
	return paypal.NewClient(cfg.PayPal, httpClient, log)
}

func provideHandlers(
	ledgerService service.LedgerService,
	accountService service.AccountService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Payment: v1.NewPaymentHandler(ledgerService, log),
		Account: v1.NewAccountHandler(accountService, log),
	}
}

func provideRouter(handlers api.Handlers, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, log)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	db *sqlx.DB,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address, "paypal_mode", cfg.PayPal.Mode)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return db.Close()
		},
	})
}
