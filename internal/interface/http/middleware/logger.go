package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// Logger 请求日志中间件
// 设计说明：
// 1. 每个请求生成唯一请求ID并回写响应头，便于排查问题
// 2. 结构化输出方法、路径、状态码、耗时、客户端IP
// 3. 不记录请求体与Token等敏感内容
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("HTTP请求", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("HTTP请求", fields...)
		default:
			log.Info("HTTP请求", fields...)
		}

		// 慢请求告警（支付模拟固定2秒，阈值放宽到3秒）
		if latency > 3*time.Second {
			log.Warn("慢请求",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("latency", latency),
			)
		}
	}
}
