package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页与关键词搜索（标题、作者、描述，不区分大小写）
// 2. 存储层故障时降级为空列表：首页必须始终可渲染，
//    故障细节只进日志，不透给前端
type ListBooksUseCase struct {
	bookService book.Service
	logger      *zap.Logger
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, logger *zap.Logger) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		logger:      logger,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookDTO `json:"list"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Keyword    string    `json:"keyword,omitempty"`
}

// Execute 执行列表查询
// 此用例永不返回错误：存储故障降级为空结果
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) *ListBooksResponse {
	query := book.Query{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	}
	query.Normalize()

	books, total, err := uc.bookService.ListBooks(ctx, query)
	if err != nil {
		// 降级：记录故障，返回空列表
		uc.logger.Error("图书列表查询失败，降级为空结果",
			zap.String("keyword", req.Keyword),
			zap.Int("page", query.Page),
			zap.Error(err))
		metrics.IncCounterVec(metrics.BookSearchesTotal, map[string]string{"result": "degraded"})

		return &ListBooksResponse{
			List:     []BookDTO{},
			Total:    0,
			Page:     query.Page,
			PageSize: query.PageSize,
			Keyword:  req.Keyword,
		}
	}

	result := "hit"
	if len(books) == 0 {
		result = "empty"
	}
	metrics.IncCounterVec(metrics.BookSearchesTotal, map[string]string{"result": result})

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = toDTO(b)
	}

	totalPages := int(total) / query.PageSize
	if int(total)%query.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalPages: totalPages,
		Keyword:    req.Keyword,
	}
}
