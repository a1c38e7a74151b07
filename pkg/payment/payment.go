// Package payment 支付网关抽象
// 设计说明：
// 1. Gateway是可插拔的支付能力（单一Charge方法），
//    调用方不感知具体实现，后续可替换为真实支付渠道
// 2. SimulatedGateway用固定延迟模拟第三方网关的网络耗时，
//    然后无条件返回成功；不产生真实扣款，也不落库
package payment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Order 订单意向
// 注意：Title/Price来自结算页的查询参数，均为原始字符串，
// 不与图书表做校验（模拟网关不关心金额语义）
type Order struct {
	Title string // 商品名
	Price string // 金额（原始字符串）
}

// Result 支付结果
type Result struct {
	TransactionNo string    // 支付流水号
	Status        string    // SUCCESS | FAILED
	PaidAt        time.Time // 支付完成时间
}

// Gateway 支付网关接口
// Charge阻塞至网关返回或ctx取消
type Gateway interface {
	Charge(ctx context.Context, order Order) (*Result, error)
}

// SimulatedGateway 模拟支付网关
type SimulatedGateway struct {
	delay time.Duration // 模拟的网关往返耗时
}

// NewSimulatedGateway 创建模拟网关
// delay<=0时使用默认2秒（与原结算页的模拟耗时一致）
func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &SimulatedGateway{delay: delay}
}

// Charge 模拟扣款
// 等待固定延迟后返回成功；调用方放弃请求（ctx取消）时立即返回，
// 不会在后台把延迟跑完
func (g *SimulatedGateway) Charge(ctx context.Context, order Order) (*Result, error) {
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), "支付已取消")
	case <-timer.C:
	}

	return &Result{
		TransactionNo: GenerateTransactionNo(),
		Status:        "SUCCESS",
		PaidAt:        time.Now(),
	}, nil
}

// GenerateTransactionNo 生成支付流水号
// 格式：PAY + YYYYMMDDHHMMSS + 6位随机数
func GenerateTransactionNo() string {
	now := time.Now()
	timePart := now.Format("20060102150405")
	randomPart := rand.Intn(900000) + 100000
	return fmt.Sprintf("PAY%s%d", timePart, randomPart)
}
