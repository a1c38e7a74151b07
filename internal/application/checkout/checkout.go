// Package checkout 结算用例
//
// 结算是纯模拟流程：商品名与金额来自结算页的原始参数，
// 不回查图书表、不落订单库。支付经由可插拔的Gateway完成，
// 外层套熔断器防止网关故障拖垮HTTP工作线程。
package checkout

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/payment"
)

// EventPublisher 领域事件发布接口（与图书用例相同的约定）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// CheckoutPaidEvent 支付完成事件
type CheckoutPaidEvent struct {
	UserID        uint   `json:"user_id"`
	Title         string `json:"title"`
	Price         string `json:"price"`
	TransactionNo string `json:"transaction_no"`
	PaidAt        string `json:"paid_at"`
}

// UseCase 结算用例
type UseCase struct {
	gateway   payment.Gateway
	breaker   *circuitbreaker.CircuitBreaker
	publisher EventPublisher
	logger    *zap.Logger
}

// NewUseCase 创建结算用例
// breaker与publisher可为nil（未启用时直连网关、不发事件）
func NewUseCase(gateway payment.Gateway, breaker *circuitbreaker.CircuitBreaker, publisher EventPublisher, logger *zap.Logger) *UseCase {
	if breaker != nil {
		// 状态切换同步到指标与日志，打开/恢复都有迹可查
		metrics.SetGaugeVec(metrics.CircuitBreakerState,
			map[string]string{"name": breaker.Name()}, float64(breaker.State()))
		breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
			metrics.SetGaugeVec(metrics.CircuitBreakerState,
				map[string]string{"name": name}, float64(to))
			logger.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		})
	}
	return &UseCase{
		gateway:   gateway,
		breaker:   breaker,
		publisher: publisher,
		logger:    logger,
	}
}

// SummaryRequest 结算页摘要请求
type SummaryRequest struct {
	Title string
	Price string
}

// Summary 结算摘要DTO
type Summary struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

// GetSummary 结算页摘要
// 仅做登录校验与参数回显，金额不做语义校验
func (uc *UseCase) GetSummary(_ context.Context, identity *auth.Identity, req SummaryRequest) (*Summary, error) {
	if !auth.Authorize(identity, auth.ResourceCheckout, auth.ActionView) {
		return nil, apperrors.ErrUnauthorized
	}
	return &Summary{Title: req.Title, Price: req.Price}, nil
}

// PayRequest 支付请求
type PayRequest struct {
	Title string
	Price string
}

// PayResponse 支付结果DTO
type PayResponse struct {
	TransactionNo string `json:"transaction_no"`
	Status        string `json:"status"`
	PaidAt        string `json:"paid_at"`
}

// Pay 执行模拟支付
// 流程：授权 → 熔断器内调用网关 → 记录指标 → 发布事件
func (uc *UseCase) Pay(ctx context.Context, identity *auth.Identity, req PayRequest) (*PayResponse, error) {
	if !auth.Authorize(identity, auth.ResourceCheckout, auth.ActionPay) {
		return nil, apperrors.ErrUnauthorized
	}

	order := payment.Order{Title: req.Title, Price: req.Price}

	start := time.Now()
	result, err := uc.charge(ctx, order)
	metrics.ObserveHistogram(metrics.CheckoutDuration, time.Since(start).Seconds())

	if err != nil {
		label := "failure"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			label = "cancelled"
		}
		metrics.IncCounterVec(metrics.CheckoutsTotal, map[string]string{"result": label})

		uc.logger.Warn("支付失败",
			zap.Uint("user_id", identity.UserID),
			zap.String("title", req.Title),
			zap.Error(err))

		if errors.Is(err, circuitbreaker.ErrOpenState) {
			return nil, apperrors.New(apperrors.ErrCodePaymentError, "支付网关暂时不可用，请稍后重试")
		}
		return nil, err
	}

	metrics.IncCounterVec(metrics.CheckoutsTotal, map[string]string{"result": "success"})

	if uc.publisher != nil {
		event := CheckoutPaidEvent{
			UserID:        identity.UserID,
			Title:         req.Title,
			Price:         req.Price,
			TransactionNo: result.TransactionNo,
			PaidAt:        result.PaidAt.Format(time.RFC3339),
		}
		if err := uc.publisher.Publish(ctx, mq.RoutingKeyCheckoutPaid, event); err != nil {
			uc.logger.Warn("发布支付完成事件失败",
				zap.String("transaction_no", result.TransactionNo),
				zap.Error(err))
		}
	}

	return &PayResponse{
		TransactionNo: result.TransactionNo,
		Status:        result.Status,
		PaidAt:        result.PaidAt.Format(time.RFC3339),
	}, nil
}

// charge 经熔断器调用支付网关
// 用户主动取消（context.Canceled）不计入熔断失败统计：
// 几个放弃支付的用户不应该把网关熔断给所有人
func (uc *UseCase) charge(ctx context.Context, order payment.Order) (*payment.Result, error) {
	if uc.breaker == nil {
		return uc.gateway.Charge(ctx, order)
	}

	var result *payment.Result
	var chargeErr error
	err := uc.breaker.Execute(func() error {
		result, chargeErr = uc.gateway.Charge(ctx, order)
		if errors.Is(chargeErr, context.Canceled) {
			return nil
		}
		return chargeErr
	})
	if err == nil {
		err = chargeErr
	}

	label := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		label = "rejected"
	case errors.Is(err, context.Canceled):
		label = "cancelled"
	case err != nil:
		label = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{
		"name":   uc.breaker.Name(),
		"result": label,
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}
