//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 使用方式：
//  1. 修改本文件的Provider或ProviderSet
//  2. 运行 `wire gen ./cmd/api`
//  3. main.go调用生成的InitializeApp()
//
// 与main.go中的手动组装保持同一依赖链：
// Repository ← Service ← UseCase ← Handler ← Engine

package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	appuser "github.com/xiebiao/bookshop/internal/application/user"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/payment"
)

// infrastructureSet 基础设施层：配置、日志、存储连接
var infrastructureSet = wire.NewSet(
	config.Load,
	provideLogger,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// paymentSet 支付网关：模拟实现 + 熔断器
var paymentSet = wire.NewSet(
	provideGateway,
	provideBreaker,
)

// eventSet 事件发布（RabbitMQ，可选组件）
var eventSet = wire.NewSet(
	providePublisher,
	provideBookEventPublisher,
	provideCheckoutEventPublisher,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	provideLogoutUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewDeleteBookUseCase,
	appcheckout.NewUseCase,
)

// middlewareSet 会话存储、JWT与认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.BlacklistChecker), new(*redis.SessionStore)),
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCheckoutHandler,
)

// provideLogger 从配置创建zap日志器
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideLogoutUseCase 黑名单TTL取配置的Access Token有效期
func provideLogoutUseCase(cfg *config.Config, store *redis.SessionStore) *appuser.LogoutUseCase {
	return appuser.NewLogoutUseCase(store, cfg.JWT.AccessTokenExpire)
}

// provideGateway 模拟支付网关
func provideGateway(cfg *config.Config) payment.Gateway {
	return payment.NewSimulatedGateway(cfg.Payment.GatewayDelay)
}

// provideBreaker 支付熔断器
func provideBreaker(cfg *config.Config) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker("payment", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Payment.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Payment.BreakerFailures
		},
	})
}

// providePublisher RabbitMQ发布器，URL为空时返回nil（事件发布禁用）
func providePublisher(cfg *config.Config, zlog *zap.Logger) *mq.Publisher {
	if cfg.MQ.URL == "" {
		return nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", zlog)
	if err != nil {
		zlog.Warn("连接RabbitMQ失败，事件发布已禁用", zap.Error(err))
		return nil
	}
	return p
}

func provideBookEventPublisher(p *mq.Publisher) appbook.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func provideCheckoutEventPublisher(p *mq.Publisher) appcheckout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// InitializeApp 初始化整个应用
// Wire在编译期按依赖关系生成wire_gen.go中的组装代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		paymentSet,
		eventSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		newRouter,
	)
	return nil, nil
}
