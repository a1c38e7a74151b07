package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
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
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/payment"
	"github.com/xiebiao/bookshop/pkg/response"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入，组装顺序与wire.go中的ProviderSet一致
// Repository ← Service ← UseCase ← Handler
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	zlog.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
	)

	// 3. 初始化指标
	metrics.InitMetrics()

	// 4. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		zlog.Fatal("初始化数据库失败", zap.Error(err))
	}

	// 5. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		zlog.Fatal("初始化Redis失败", zap.Error(err))
	}

	// 6. 可选组件：消息队列（URL为空时不启用，发布方传nil即可）
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", zlog)
		if err != nil {
			// 消息队列不可用不阻断启动，事件发布静默降级
			zlog.Warn("连接RabbitMQ失败，事件发布已禁用", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// 7. 可选组件：链路追踪（Endpoint为空时不启用）
	if cfg.Tracing.Endpoint != "" {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			zlog.Warn("初始化链路追踪失败", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					zlog.Warn("关闭链路追踪失败", zap.Error(err))
				}
			}()
		}
	}

	// 8. 依赖注入（手动组装）

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 支付网关：模拟实现 + 熔断保护
	gateway := payment.NewSimulatedGateway(cfg.Payment.GatewayDelay)
	breaker := circuitbreaker.NewCircuitBreaker("payment", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Payment.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Payment.BreakerFailures
		},
	})

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore, zlog)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore, cfg.JWT.AccessTokenExpire)
	createBookUseCase := appbook.NewCreateBookUseCase(bookService, eventPublisher(publisher), zlog)
	listBooksUseCase := appbook.NewListBooksUseCase(bookService, zlog)
	getBookUseCase := appbook.NewGetBookUseCase(bookService)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookService, eventPublisher(publisher), zlog)
	checkoutUseCase := appcheckout.NewUseCase(gateway, breaker, checkoutPublisher(publisher), zlog)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	bookHandler := handler.NewBookHandler(createBookUseCase, listBooksUseCase, getBookUseCase, deleteBookUseCase)
	checkoutHandler := handler.NewCheckoutHandler(checkoutUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 9. 初始化Gin引擎并注册路由
	r := newRouter(cfg, zlog, userHandler, bookHandler, checkoutHandler, authMiddleware)

	// 10. 启动服务（优雅停机）
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("服务启动成功",
			zap.String("addr", "http://localhost"+addr),
			zap.String("health", "http://localhost"+addr+"/ping"),
			zap.String("metrics", "http://localhost"+addr+"/metrics"),
			zap.String("swagger", "http://localhost"+addr+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("收到退出信号，正在停机...")

	// 支付模拟固定2秒耗时，停机窗口需要覆盖在途请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("停机超时，强制退出", zap.Error(err))
	}
	zlog.Info("服务已退出")
}

// eventPublisher 将*mq.Publisher转为图书事件发布接口
// nil的具体类型直接赋给接口会产生非nil接口值，这里显式归一
func eventPublisher(p *mq.Publisher) appbook.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// checkoutPublisher 同上，结算事件发布接口
func checkoutPublisher(p *mq.Publisher) appcheckout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// newRouter 创建Gin引擎
// 中间件顺序：Recovery → 日志 → 指标 → 追踪 → 路由守卫
func newRouter(
	cfg *config.Config,
	zlog *zap.Logger,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	checkoutHandler *handler.CheckoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(zlog))
	r.Use(middleware.Metrics())
	if cfg.Tracing.Endpoint != "" {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	r.Use(authMiddleware.RouteGuard())

	registerRoutes(r, userHandler, bookHandler, checkoutHandler, authMiddleware)
	return r
}

// registerRoutes 注册路由
// 页面路由（/checkout、/user、/books/new）由RouteGuard按路径策略拦截，
// API路由组显式挂载RequireAuth/RequireAdmin
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	checkoutHandler *handler.CheckoutHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 页面路由
	r.GET("/checkout", checkoutHandler.Summary)
	r.GET("/user/profile", userHandler.Profile)

	// 新增图书页（管理员专属，由RouteGuard拦截），返回表单字段描述
	r.GET("/books/new", func(c *gin.Context) {
		response.Success(c, gin.H{
			"fields": []string{"title", "author", "price", "cover_url", "description"},
			"submit": "POST /api/v1/books",
		})
	})

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 图书模块
		books := v1.Group("/books")
		{
			// 公开接口
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)

			// 管理员接口
			books.POST("", authMiddleware.RequireAdmin(), bookHandler.CreateBook)
			books.DELETE("/:id", authMiddleware.RequireAdmin(), bookHandler.DeleteBook)
		}

		// 结算模块（需要登录）
		v1.POST("/checkout", authMiddleware.RequireAuth(), checkoutHandler.Pay)
	}
}
