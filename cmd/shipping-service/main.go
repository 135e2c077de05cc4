// cmd/shipping-service/main.go
package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	zlog "github.com/rs/zerolog/log"

	"nexmall/internal/pkg/bootstrap"
	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/service/shipping/application"
	"nexmall/internal/service/shipping/infrastructure"
	"nexmall/internal/service/shipping/infrastructure/adapter"
	"nexmall/internal/service/shipping/interfaces"
)

const serviceName = "shipping-service"

// main 函数是应用的"组装根" (Composition Root)
func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8082,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Config
			tracer := otel.Tracer(serviceName)

			db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
			if err != nil {
				zlog.Fatal().Err(err).Msg("failed to connect to mysql")
			}

			repo := infrastructure.NewGormShipmentRepository(db)
			if err := repo.AutoMigrate(); err != nil {
				zlog.Fatal().Err(err).Msg("failed to migrate shipping schema")
			}

			carrier := adapter.NewGhtkClient(
				httpclient.NewClient(tracer),
				cfg.Carrier.BaseURL,
				cfg.Carrier.Token,
				cfg.Carrier.PartnerCode,
			)

			service := application.NewShippingApplicationService(repo, carrier, cfg.Carrier, tracer)
			handler := interfaces.NewShippingHandler(service)
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {},
	})
}
