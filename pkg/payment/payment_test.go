package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimulatedCharge 模拟网关在延迟后返回成功
func TestSimulatedCharge(t *testing.T) {
	gw := NewSimulatedGateway(20 * time.Millisecond)

	start := time.Now()
	result, err := gw.Charge(context.Background(), Order{Title: "1984", Price: "12.99"})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", result.Status)
	assert.True(t, strings.HasPrefix(result.TransactionNo, "PAY"), "流水号应以PAY开头")
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond, "应等待模拟延迟")
}

// TestChargeCancelled ctx取消时立即返回，不等延迟跑完
func TestChargeCancelled(t *testing.T) {
	gw := NewSimulatedGateway(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	result, err := gw.Charge(ctx, Order{Title: "1984", Price: "12.99"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Less(t, time.Since(start), time.Second, "取消后不应继续等待")
}

// TestTransactionNoFormat 流水号格式：PAY + 14位时间 + 6位随机数
func TestTransactionNoFormat(t *testing.T) {
	no := GenerateTransactionNo()
	assert.Len(t, no, 3+14+6)
	assert.True(t, strings.HasPrefix(no, "PAY"))
}
