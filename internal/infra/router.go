package infra

import (
	"net/http"

	"github.com/WeDoCheapies/website/internal/auth"
	"github.com/WeDoCheapies/website/internal/cache"
	"github.com/WeDoCheapies/website/internal/config"
	"github.com/WeDoCheapies/website/internal/handlers"
	"github.com/WeDoCheapies/website/internal/middleware"
	"github.com/WeDoCheapies/website/internal/notify"
	"github.com/WeDoCheapies/website/internal/realtime"
	"github.com/WeDoCheapies/website/internal/repository"
	"github.com/WeDoCheapies/website/internal/service"
	"github.com/WeDoCheapies/website/internal/validation"
	"github.com/WeDoCheapies/website/pkg/db/transactor"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires repositories, services and handlers of the back-office api
func Router(
	cfg config.Config,
	pgPool *pgxpool.Pool,
	redisClient *redis.Client,
	hub *realtime.Hub,
	notifier notify.Notifier,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler(e)

	validator, err := validation.New()
	if err != nil {
		return nil, err
	}
	e.Validator = validator

	e.Use(echoMw.Recover())
	e.Use(echoMw.RequestID())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins: cfg.HttpCfg.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Transactors
	trx := transactor.NewPgxTransactor(pgPool)
	trxExecutor := transactor.NewPgxWithinTransactionExecutor(pgPool)

	// Middleware
	jwtValidator := auth.NewJwtValidator(cfg.JwtCfg.SigningMethod, cfg.JwtCfg.PublicKey)
	authorizeMw := middleware.Authorize(jwtValidator)

	// Repositories
	customerRepo := repository.NewPostgresCustomerRepository(trxExecutor)
	washTypeRepo := repository.NewPostgresWashTypeRepository(trxExecutor)
	vehicleRepo := repository.NewPostgresVehicleRepository(trxExecutor)
	washRepo := repository.NewPostgresWashRepository(trxExecutor)
	customerCache := cache.NewRedisCustomerCache(redisClient, cfg.RedisCfg.TimeToLive)

	// Services
	ledgerSvc := service.NewLedgerService(customerRepo, customerCache, notifier)
	customerSvc := service.NewCustomerService(customerRepo, customerCache)
	washTypeSvc := service.NewWashTypeService(washTypeRepo)
	vehicleSvc := service.NewVehicleService(trx, customerRepo, vehicleRepo)
	washSvc := service.NewWashService(trx, ledgerSvc, customerRepo, washTypeRepo, vehicleRepo, washRepo)

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc, ledgerSvc)
	washHandler := handlers.NewWashHTTPHandler(washSvc)
	washTypeHandler := handlers.NewWashTypeHTTPHandler(washTypeSvc)
	vehicleHandler := handlers.NewVehicleHTTPHandler(vehicleSvc)
	realtimeHandler := handlers.NewRealtimeHandler(hub, cfg.HttpCfg.AllowOrigins)

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes
	api := e.Group("/api")

	// customers and their ledger
	customersApi := api.Group("/customers", authorizeMw)
	customersApi.GET("", customerHandler.GetAll)
	customersApi.GET("/:id", customerHandler.Get)
	customersApi.POST("", customerHandler.Post)
	customersApi.PUT("/:id", customerHandler.Put)
	customersApi.DELETE("/:id", customerHandler.DeleteByID)
	customersApi.POST("/:id/wash-count/decrement", customerHandler.RemoveWash)
	customersApi.POST("/:id/wash-count/recount", customerHandler.Recount)
	customersApi.POST("/:id/redemptions", customerHandler.Redeem)
	customersApi.GET("/:id/washes", washHandler.History)
	customersApi.POST("/:id/washes", washHandler.Record)
	customersApi.GET("/:id/vehicles", vehicleHandler.GetByCustomer)
	customersApi.POST("/:id/vehicles", vehicleHandler.Post)

	// washes
	washesApi := api.Group("/washes", authorizeMw)
	washesApi.GET("/:id", washHandler.Receipt)

	// vehicles
	vehiclesApi := api.Group("/vehicles", authorizeMw)
	vehiclesApi.PUT("/:id", vehicleHandler.Put)
	vehiclesApi.PUT("/:id/primary", vehicleHandler.SetPrimary)
	vehiclesApi.DELETE("/:id", vehicleHandler.DeleteByID)

	// wash types, catalog is public for storefront
	washTypesApi := api.Group("/wash-types")
	washTypesApi.GET("", washTypeHandler.GetAll)
	washTypesApi.GET("/:id", washTypeHandler.Get)
	washTypesApi.POST("", washTypeHandler.Post, authorizeMw)
	washTypesApi.PUT("/:id", washTypeHandler.Put, authorizeMw)
	washTypesApi.DELETE("/:id", washTypeHandler.DeleteByID, authorizeMw)

	// realtime
	api.GET("/realtime", realtimeHandler.Stream, authorizeMw)

	return e, nil
}
