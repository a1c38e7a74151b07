package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/payment"
)

// breakerRequests 读取熔断器请求计数器当前值
func breakerRequests(t *testing.T, name, result string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.CircuitBreakerRequests.
		With(map[string]string{"name": name, "result": result}).Write(&m))
	return m.GetCounter().GetValue()
}

// breakerState 读取熔断器状态gauge当前值
func breakerState(t *testing.T, name string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.CircuitBreakerState.
		With(map[string]string{"name": name}).Write(&m))
	return m.GetGauge().GetValue()
}

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.events = append(p.events, routingKey)
	return nil
}

// failingGateway 始终失败的网关，用于熔断测试
type failingGateway struct{}

func (failingGateway) Charge(context.Context, payment.Order) (*payment.Result, error) {
	return nil, errors.New("gateway unreachable")
}

var loggedIn = &auth.Identity{UserID: 2, Email: "user@bookstore.com", Role: auth.RoleUser}

func TestPaySuccess(t *testing.T) {
	gw := payment.NewSimulatedGateway(10 * time.Millisecond)
	pub := &fakePublisher{}
	uc := NewUseCase(gw, nil, pub, zap.NewNop())

	resp, err := uc.Pay(context.Background(), loggedIn, PayRequest{Title: "一九八四", Price: "9.99"})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.True(t, strings.HasPrefix(resp.TransactionNo, "PAY"))
	assert.Len(t, resp.TransactionNo, 3+14+6)
	assert.Equal(t, []string{"checkout.paid"}, pub.events)
}

func TestPayRequiresLogin(t *testing.T) {
	uc := NewUseCase(payment.NewSimulatedGateway(time.Millisecond), nil, nil, zap.NewNop())

	_, err := uc.Pay(context.Background(), nil, PayRequest{Title: "某书名", Price: "1.00"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestPayCancelled(t *testing.T) {
	uc := NewUseCase(payment.NewSimulatedGateway(5*time.Second), nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := uc.Pay(ctx, loggedIn, PayRequest{Title: "某书名", Price: "1.00"})
	assert.Error(t, err)
	// 取消后立即返回，不等网关延迟跑完
	assert.Less(t, time.Since(start), time.Second)
}

func TestPayCircuitBreakerOpens(t *testing.T) {
	breaker := circuitbreaker.NewCircuitBreaker("payment-gateway", circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	uc := NewUseCase(failingGateway{}, breaker, nil, zap.NewNop())
	ctx := context.Background()

	failuresBefore := breakerRequests(t, "payment-gateway", "failure")
	rejectedBefore := breakerRequests(t, "payment-gateway", "rejected")

	// 连续失败触发熔断
	for i := 0; i < 3; i++ {
		_, err := uc.Pay(ctx, loggedIn, PayRequest{Title: "某书名", Price: "1.00"})
		assert.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	// 状态切换回调把gauge推到OPEN
	assert.Equal(t, float64(circuitbreaker.StateOpen), breakerState(t, "payment-gateway"))
	assert.Equal(t, failuresBefore+3, breakerRequests(t, "payment-gateway", "failure"))

	// 熔断打开后快速失败，返回支付网关不可用
	_, err := uc.Pay(ctx, loggedIn, PayRequest{Title: "某书名", Price: "1.00"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodePaymentError, appErr.Code)
	assert.Equal(t, rejectedBefore+1, breakerRequests(t, "payment-gateway", "rejected"))
}

func TestPayCancelledDoesNotTripBreaker(t *testing.T) {
	// 阈值2，取消3次仍不应熔断
	breaker := circuitbreaker.NewCircuitBreaker("payment-cancel", circuitbreaker.Config{
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})
	uc := NewUseCase(payment.NewSimulatedGateway(5*time.Second), breaker, nil, zap.NewNop())

	cancelledBefore := breakerRequests(t, "payment-cancel", "cancelled")

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := uc.Pay(ctx, loggedIn, PayRequest{Title: "某书名", Price: "1.00"})
		assert.ErrorIs(t, err, context.Canceled)
	}

	// 用户主动放弃不计入失败统计，熔断器保持关闭
	assert.Equal(t, circuitbreaker.StateClosed, breaker.State())
	assert.Equal(t, cancelledBefore+3, breakerRequests(t, "payment-cancel", "cancelled"))

	// 网关本身健康，后续支付正常
	uc2 := NewUseCase(payment.NewSimulatedGateway(10*time.Millisecond), breaker, nil, zap.NewNop())
	resp, err := uc2.Pay(context.Background(), loggedIn, PayRequest{Title: "某书名", Price: "1.00"})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", resp.Status)
}

func TestGetSummary(t *testing.T) {
	uc := NewUseCase(payment.NewSimulatedGateway(time.Millisecond), nil, nil, zap.NewNop())
	ctx := context.Background()

	s, err := uc.GetSummary(ctx, loggedIn, SummaryRequest{Title: "一九八四", Price: "9.99"})
	require.NoError(t, err)
	assert.Equal(t, "一九八四", s.Title)
	assert.Equal(t, "9.99", s.Price)

	_, err = uc.GetSummary(ctx, nil, SummaryRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
