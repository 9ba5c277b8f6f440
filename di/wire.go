//go:build wireinject
// +build wireinject

package di

import (
	"pscafe/config"
	"pscafe/infras/kafka"
	"pscafe/infras/otel"
	"pscafe/infras/postgres"
	"pscafe/infras/redis"
	"pscafe/infras/s3"
	"pscafe/shared/cache"
	"pscafe/transport/http"
	"pscafe/transport/http/middleware"
	"pscafe/transport/http/router"

	catalogRepository "pscafe/internal/domains/catalog/repository"
	catalogService "pscafe/internal/domains/catalog/service"
	receiptRepository "pscafe/internal/domains/receipt/repository"
	receiptService "pscafe/internal/domains/receipt/service"
	sessionRepository "pscafe/internal/domains/session/repository"
	sessionService "pscafe/internal/domains/session/service"
	tableRepository "pscafe/internal/domains/table/repository"
	tableService "pscafe/internal/domains/table/service"

	catalogHandler "pscafe/internal/handlers/catalog"
	receiptHandler "pscafe/internal/handlers/receipt"
	sessionHandler "pscafe/internal/handlers/session"
	tableHandler "pscafe/internal/handlers/table"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var sessionDomain = wire.NewSet(
	sessionRepository.New,
	sessionService.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.NewCategory,
	catalogRepository.NewProduct,
	catalogRepository.NewStockMovement,
	catalogService.New,
)

var receiptDomain = wire.NewSet(
	receiptRepository.New,
	receiptService.New,
)

var domains = wire.NewSet(
	tableDomain,
	sessionDomain,
	catalogDomain,
	receiptDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	tableHandler.New,
	sessionHandler.New,
	catalogHandler.New,
	receiptHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
