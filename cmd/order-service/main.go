// cmd/order-service/main.go
package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	zlog "github.com/rs/zerolog/log"

	"nexmall/internal/pkg/bootstrap"
	"nexmall/internal/pkg/httpclient"
	"nexmall/internal/pkg/mq"
	"nexmall/internal/pkg/redis"
	"nexmall/internal/pkg/zookeeper"
	"nexmall/internal/service/order/application"
	"nexmall/internal/service/order/domain/port"
	"nexmall/internal/service/order/infrastructure"
	"nexmall/internal/service/order/infrastructure/adapter"
	"nexmall/internal/service/order/infrastructure/rule"
	"nexmall/internal/service/order/interfaces"
)

const serviceName = "order-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := appCtx.Config
			tracer := otel.Tracer(serviceName)

			// 1. 基础设施
			db, err := gorm.Open(mysql.Open(cfg.Infra.Mysql.DSN), &gorm.Config{})
			if err != nil {
				zlog.Fatal().Err(err).Msg("failed to connect to mysql")
			}

			orderRepo := infrastructure.NewGormOrderRepository(db)
			if err := orderRepo.AutoMigrate(); err != nil {
				zlog.Fatal().Err(err).Msg("failed to migrate order schema")
			}
			revenueRepo := infrastructure.NewGormRevenueRepository(db)

			httpClient := httpclient.NewClient(tracer)
			kafkaWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.StockTopic)
			redisClient := redis.NewClient(cfg.Infra.Redis.Addr)
			cleanups = append(cleanups,
				func() { _ = kafkaWriter.Close() },
				func() { _ = redisClient.Close() },
			)

			// 2. 出站适配器
			stockGateway := adapter.NewStockGateway(
				adapter.NewStockHTTPAdapter(httpClient, cfg.Services.ProductBaseURL),
				adapter.NewStockKafkaAdapter(kafkaWriter),
			)
			shippingGateway := adapter.NewShippingHTTPAdapter(httpClient, cfg.Services.ShippingBaseURL)
			profileGateway := adapter.NewProfileHTTPAdapter(httpClient, cfg.Services.ProfileBaseURL)

			// 3. 订单级分布式锁；Zookeeper 不可用时直接失败，
			// 没有锁的多实例部署会破坏状态流转的串行性。
			zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers)
			if err != nil {
				zlog.Fatal().Err(err).Msg("failed to connect to zookeeper")
			}
			var locker port.OrderLocker = infrastructure.NewZkOrderLocker(zkConn)
			cleanups = append(cleanups, zkConn.Close)

			// 4. 应用服务
			reconciler := application.NewReconciler(orderRepo, shippingGateway, redisClient, cfg.Infra.Redis.CarrierStatusTTL, tracer)
			orderService := application.NewOrderApplicationService(
				orderRepo,
				stockGateway,
				shippingGateway,
				profileGateway,
				rule.NewCELRuleEngine(),
				cfg.App.FreeShippingRule,
				locker,
				reconciler,
				cfg.App.ReconcileConcurrency,
				tracer,
			)
			revenueService := application.NewRevenueService(revenueRepo, tracer)

			// 5. 入站接口
			handler := interfaces.NewOrderHandler(orderService, revenueService)
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			// bootstrap 已经关掉 HTTP 服务器，这里逆序释放自己的资源
			for i := len(cleanups) - 1; i >= 0; i-- {
				cleanups[i]()
			}
		},
	})
}

var cleanups []func()
