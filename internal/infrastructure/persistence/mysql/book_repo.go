package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库特定错误在此转换为业务错误，上层不感知GORM
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:       b.Title,
		Author:      b.Author,
		PriceCents:  b.PriceCents,
		CoverURL:    b.CoverURL,
		Description: b.Description,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.WrapStore(err, "创建图书失败")
	}

	// 回填自增ID与时间戳
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Delete 删除图书(物理删除，BookModel没有DeletedAt，行直接移除)
// RowsAffected==0时视为目标不存在，返回NotFound
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.WrapStore(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
// 关键词不区分大小写地匹配书名、作者、描述，结果按创建时间降序
func (r *bookRepository) List(ctx context.Context, query book.Query) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	q := r.db.WithContext(ctx).Model(&BookModel{})

	if query.Keyword != "" {
		// LOWER双侧转换保证大小写不敏感，不依赖列的collation设置
		keyword := "%" + strings.ToLower(query.Keyword) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?",
			keyword, keyword, keyword,
		)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书总数失败")
	}

	q = q.Order("created_at DESC").
		Limit(query.PageSize).
		Offset(query.Offset())

	if err := q.Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapStore(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		PriceCents:  model.PriceCents,
		CoverURL:    model.CoverURL,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
