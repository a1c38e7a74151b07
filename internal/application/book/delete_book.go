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

// DeleteBookUseCase 图书删除用例（管理员操作）
// 授权判定先于任何存储访问；删除不存在的图书返回NotFound
type DeleteBookUseCase struct {
	bookService book.Service
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service, publisher EventPublisher, logger *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, identity *auth.Identity, id uint) error {
	if !auth.Authorize(identity, auth.ResourceBook, auth.ActionDelete) {
		if identity == nil {
			return apperrors.ErrUnauthorized
		}
		return apperrors.ErrForbidden
	}

	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}

	metrics.IncCounter(metrics.BooksDeletedTotal)

	if uc.publisher != nil {
		event := BookDeletedEvent{BookID: id, OperatorID: identity.UserID}
		if err := uc.publisher.Publish(ctx, mq.RoutingKeyBookDeleted, event); err != nil {
			uc.logger.Warn("发布图书删除事件失败",
				zap.Uint("book_id", id),
				zap.Error(err))
		}
	}

	return nil
}
