package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshop/internal/application/book"
	domainbook "github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBook *appbook.CreateBookUseCase
	listBooks  *appbook.ListBooksUseCase
	getBook    *appbook.GetBookUseCase
	deleteBook *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBook *appbook.CreateBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createBook: createBook,
		listBooks:  listBooks,
		getBook:    getBook,
		deleteBook: deleteBook,
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  管理员创建图书（上架到目录）
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	// 价格两种写法：price_cents优先，否则解析price字符串
	priceCents := req.PriceCents
	if priceCents == 0 && req.Price != "" {
		parsed, err := dto.ParsePriceCents(req.Price)
		if err != nil {
			response.ErrorWithCode(c, 40900, "价格格式不正确")
			return
		}
		priceCents = parsed
	}

	identity := middleware.GetIdentity(c)

	result, err := h.createBook.Execute(c.Request.Context(), identity, appbook.CreateBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		PriceCents:  priceCents,
		CoverURL:    req.CoverURL,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// ListBooks 图书列表与搜索
// @Summary      图书列表
// @Description  分页查询图书，支持按书名/作者/描述关键词搜索（不区分大小写）
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        q query string false "搜索关键词"
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	// 列表永不失败：存储故障在用例内降级为空结果
	result := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})

	list := make([]dto.BookResponse, len(result.List))
	for i := range result.List {
		list[i] = *toBookResponse(&result.List[i])
	}

	response.Success(c, &dto.ListBooksResponse{
		List:       list,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
		Keyword:    result.Keyword,
	})
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, domainbook.ErrInvalidID)
		return
	}

	result, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  管理员从目录删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, domainbook.ErrInvalidID)
		return
	}

	identity := middleware.GetIdentity(c)

	if err := h.deleteBook.Execute(c.Request.Context(), identity, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseID 解析路径中的图书ID
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domainbook.ErrInvalidID
	}
	return uint(id), nil
}

// toBookResponse 应用层DTO → HTTP响应
func toBookResponse(b *appbook.BookDTO) *dto.BookResponse {
	return &dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		PriceCents:  b.PriceCents,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}
