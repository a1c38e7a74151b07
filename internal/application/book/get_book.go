package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// GetBookUseCase 图书详情查询用例
// 公开接口，无需登录。与列表不同，详情查询的存储故障原样上抛：
// 详情页没有可降级的“空态”，404与500必须区分。
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(b)
	return &dto, nil
}
