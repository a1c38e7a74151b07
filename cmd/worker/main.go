// 事件消费命令
// 用法：go run ./cmd/worker
// 消费图书与结算领域事件（book.created/book.deleted/checkout.paid），
// 以结构化日志落一条审计记录。mq.url未配置时直接退出。
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if cfg.MQ.URL == "" {
		zlog.Fatal("mq.url未配置，事件消费无法启动")
	}

	consumer, err := mq.NewConsumer(
		cfg.MQ.URL,
		cfg.MQ.Exchange,
		"topic",
		cfg.MQ.Queue,
		[]string{
			mq.RoutingKeyBookCreated,
			mq.RoutingKeyBookDeleted,
			mq.RoutingKeyCheckoutPaid,
		},
		zlog,
	)
	if err != nil {
		zlog.Fatal("创建消费者失败", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zlog.Info("收到退出信号，正在停止消费...")
		cancel()
	}()

	if err := consumer.Consume(ctx, auditEvent(zlog)); err != nil {
		zlog.Fatal("消费异常退出", zap.Error(err))
	}
}

// auditEvent 把事件落为审计日志
// 消息体是各用例发布的事件JSON，解析失败时记原文且不重新入队
// （格式错误的消息重试也不会变好）
func auditEvent(zlog *zap.Logger) func(routingKey string, body []byte) error {
	return func(routingKey string, body []byte) error {
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err != nil {
			zlog.Warn("事件体不是合法JSON",
				zap.String("routing_key", routingKey),
				zap.ByteString("body", body))
			return nil
		}

		zlog.Info("审计事件",
			zap.String("routing_key", routingKey),
			zap.Any("event", fields))
		return nil
	}
}
