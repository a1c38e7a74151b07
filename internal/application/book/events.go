package book

import "context"

// EventPublisher 领域事件发布接口
// 由pkg/mq.Publisher实现，测试时可用内存实现替换。
// 事件发布是尽力而为：失败只记日志，不阻断主流程。
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookCreatedEvent 图书创建事件
type BookCreatedEvent struct {
	BookID     uint   `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	PriceCents int64  `json:"price_cents"`
	OperatorID uint   `json:"operator_id"`
}

// BookDeletedEvent 图书删除事件
type BookDeletedEvent struct {
	BookID     uint `json:"book_id"`
	OperatorID uint `json:"operator_id"`
}
