package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/carsmotion/carsmotion/internal/backup"
	"github.com/carsmotion/carsmotion/internal/common/config"
	"github.com/carsmotion/carsmotion/internal/common/db"
	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/carsmotion/carsmotion/internal/common/middleware"
	"github.com/carsmotion/carsmotion/internal/common/server"
	"github.com/carsmotion/carsmotion/internal/common/tracing"
	"github.com/carsmotion/carsmotion/internal/customer"
	"github.com/carsmotion/carsmotion/internal/invoice"
	"github.com/carsmotion/carsmotion/internal/ledger"
	"github.com/carsmotion/carsmotion/internal/maintenance"
	"github.com/carsmotion/carsmotion/internal/reservation"
	"github.com/carsmotion/carsmotion/internal/settings"
	"github.com/carsmotion/carsmotion/internal/user"
	"github.com/carsmotion/carsmotion/internal/vehicle"
)

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/backoffice.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	closer, err := tracing.Init(cfg.Server.Name, cfg.Jaeger)
	if err != nil {
		log.Warnf("tracing disabled: %v", err)
	} else {
		defer closer.Close()
	}

	gormDB, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := gormDB.AutoMigrate(
		&user.User{},
		&vehicle.Vehicle{},
		&customer.Customer{},
		&reservation.Reservation{},
		&invoice.Invoice{},
		&ledger.Transaction{},
		&maintenance.Record{},
		&settings.Settings{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithinTx(ctx, gormDB, fn)
	}

	// Repositories.
	userRepo := user.NewRepo(gormDB)
	vehicleRepo := vehicle.NewRepo(gormDB)
	customerRepo := customer.NewRepo(gormDB)
	reservationRepo := reservation.NewRepo(gormDB)
	invoiceRepo := invoice.NewRepo(gormDB)
	ledgerRepo := ledger.NewRepo(gormDB)
	maintenanceRepo := maintenance.NewRepo(gormDB)
	settingsRepo := settings.NewRepo(gormDB)

	// Services.
	ledgerGen := ledger.NewGenerator(ledgerRepo, vehicleRepo, log)
	userSvc := user.NewService(userRepo, cfg.Auth, log)
	vehicleSvc := vehicle.NewService(vehicleRepo)
	customerSvc := customer.NewService(customerRepo)
	reservationSvc := reservation.NewService(reservationRepo, vehicleRepo, customerRepo, ledgerGen, runTx, log)
	invoiceSvc := invoice.NewService(invoiceRepo, reservationRepo)
	ledgerSvc := ledger.NewService(ledgerRepo)
	maintenanceSvc := maintenance.NewService(maintenanceRepo, vehicleRepo, ledgerGen, runTx)
	backupSvc := backup.NewService(gormDB, settingsRepo, log)
	reconciler := reservation.NewReconciler(reservationRepo, vehicleRepo, log)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelBoot()

	if err := userSvc.EnsureAdmin(bootCtx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if changed, err := reconciler.Reconcile(bootCtx); err != nil {
		log.Warnf("startup reconcile: %v", err)
	} else if changed > 0 {
		log.Infof("startup reconcile: %d vehicles updated", changed)
	}
	if cfg.Jobs.MonthlyExpensesOnStart {
		if created, err := ledgerGen.GenerateMonthlyVehicleExpenses(bootCtx, time.Now().UTC()); err != nil {
			log.Warnf("startup monthly expenses: %v", err)
		} else if created > 0 {
			log.Infof("startup monthly expenses: %d entries", created)
		}
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()
	if cfg.Jobs.ReconcileIntervalMinutes > 0 {
		go reconciler.Run(jobCtx, time.Duration(cfg.Jobs.ReconcileIntervalMinutes)*time.Minute)
	}

	// Handlers.
	userHandler := user.NewHandler(userSvc)
	vehicleHandler := vehicle.NewHandler(vehicleSvc)
	customerHandler := customer.NewHandler(customerSvc)
	reservationHandler := reservation.NewHandler(reservationSvc)
	invoiceHandler := invoice.NewHandler(invoiceSvc)
	ledgerHandler := ledger.NewHandler(ledgerSvc, ledgerGen)
	maintenanceHandler := maintenance.NewHandler(maintenanceSvc)
	settingsHandler := settings.NewHandler(settingsRepo)
	backupHandler := backup.NewHandler(backupSvc)

	register := func(r *gin.Engine) error {
		api := r.Group("/api/v1")

		public := api.Group("")
		public.Use(middleware.RateLimit(middleware.NewTokenBucket(10, 5)))
		userHandler.RegisterRoutes(public)

		protected := api.Group("")
		protected.Use(middleware.Authenticate(cfg.Auth))
		vehicleHandler.RegisterRoutes(protected)
		customerHandler.RegisterRoutes(protected)
		reservationHandler.RegisterRoutes(protected)
		invoiceHandler.RegisterRoutes(protected)
		ledgerHandler.RegisterRoutes(protected)
		maintenanceHandler.RegisterRoutes(protected)
		settingsHandler.RegisterRoutes(protected)
		backupHandler.RegisterRoutes(protected)

		protected.POST("/admin/reconcile", func(c *gin.Context) {
			changed, err := reconciler.Reconcile(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "reconcile failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"changed": changed})
		})
		return nil
	}

	return server.RunHTTPServer(cfg, log, register)
}
