package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// CreateBookUseCase 图书创建用例（管理员操作）
// 设计说明:
// 1. 授权判定先于任何存储访问：无权限的请求不产生任何写操作
// 2. 身份通过参数显式传入，不读取隐式会话状态
// 3. 创建成功后发布book.created事件（尽力而为）
type CreateBookUseCase struct {
	bookService book.Service
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewCreateBookUseCase 创建用例
// publisher可为nil（未启用消息队列时）
func NewCreateBookUseCase(bookService book.Service, publisher EventPublisher, logger *zap.Logger) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	Title       string
	Author      string
	PriceCents  int64
	CoverURL    string
	Description string
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, identity *auth.Identity, req CreateBookRequest) (*BookDTO, error) {
	// 1. 集中式授权（未登录与权限不足区分返回）
	if !auth.Authorize(identity, auth.ResourceBook, auth.ActionCreate) {
		if identity == nil {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.ErrForbidden
	}

	// 2. 领域服务负责字段校验与持久化
	b, err := uc.bookService.CreateBook(ctx, req.Title, req.Author, req.PriceCents, req.CoverURL, req.Description)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BooksCreatedTotal)

	// 3. 发布事件，失败不影响主流程
	if uc.publisher != nil {
		event := BookCreatedEvent{
			BookID:     b.ID,
			Title:      b.Title,
			Author:     b.Author,
			PriceCents: b.PriceCents,
			OperatorID: identity.UserID,
		}
		if err := uc.publisher.Publish(ctx, mq.RoutingKeyBookCreated, event); err != nil {
			uc.logger.Warn("发布图书创建事件失败",
				zap.Uint("book_id", b.ID),
				zap.Error(err))
		}
	}

	dto := toDTO(b)
	return &dto, nil
}
