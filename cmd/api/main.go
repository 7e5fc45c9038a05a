package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "tripdesk/internal/adapter/http"
	"tripdesk/internal/adapter/middleware"
	"tripdesk/internal/adapter/repository/mysql"
	"tripdesk/internal/config"
	"tripdesk/internal/infrastructure/cache"
	"tripdesk/internal/infrastructure/db"
	approvalUC "tripdesk/internal/usecase/approval"
	budgetUC "tripdesk/internal/usecase/budget"
	"tripdesk/internal/usecase/scope"
	tripUC "tripdesk/internal/usecase/trip"
	"tripdesk/pkg/logging"
)

func main() {
	log := logging.Logger()
	defer func() { _ = log.Sync() }()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal("mysql connect failed", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}

	// repositories + unit of work
	uow := mysql.NewGormUoW(gdb)
	trips := mysql.NewTripRepository(gdb)
	steps := mysql.NewStepRepository(gdb)
	budgets := mysql.NewBudgetRepository(gdb)
	ids := mysql.NewIdentityRepository(gdb)

	// usecases
	resolver := scope.NewResolver(ids)
	tripUsecase := tripUC.NewUsecase(uow, trips, steps, resolver, cfg.TertiaryDistanceKM)
	approvalUsecase := approvalUC.NewUsecase(uow, resolver, log)
	budgetUsecase := budgetUC.NewUsecase(uow, budgets)

	// handlers
	h := httpadp.NewHandler()
	tripHandler := httpadp.NewTripHandler(tripUsecase, ids)
	approvalHandler := httpadp.NewApprovalHandler(approvalUsecase, ids)
	budgetHandler := httpadp.NewBudgetHandler(budgetUsecase, ids)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	trips_ := e.Group("/trips")
	trips_.GET("", tripHandler.ListTrips)
	trips_.GET("/:trip_id", tripHandler.GetTrip)
	trips_.POST("", tripHandler.CreateTrip, idemp)
	trips_.POST("/bulk", approvalHandler.BulkTransition, idemp)
	trips_.POST("/:trip_id/transition", approvalHandler.Transition, idemp)
	trips_.POST("/:trip_id/payment", approvalHandler.Pay, idemp)
	trips_.POST("/:trip_id/cancel", approvalHandler.Cancel, idemp)
	trips_.POST("/:trip_id/repair", approvalHandler.Repair, idemp)

	budgets_ := e.Group("/budgets")
	budgets_.GET("/:holder_id", budgetHandler.GetHolder)
	budgets_.GET("/:holder_id/transactions", budgetHandler.History)
	budgets_.POST("", budgetHandler.Bootstrap, idemp)
	budgets_.POST("/:holder_id/adjustments", budgetHandler.Adjust, idemp)

	addr := ":" + cfg.AppPort
	log.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
