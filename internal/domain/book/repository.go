package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Delete 删除图书,目标不存在时返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表,返回(当页数据, 总数, 错误)
	// 关键词为空时返回全部,按创建时间倒序
	List(ctx context.Context, query Query) ([]*Book, int64, error)
}

// Query 列表查询参数
type Query struct {
	Keyword  string // 搜索关键词(匹配书名、作者、描述,不区分大小写)
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
}

// Normalize 规范化分页参数
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}

// Offset 计算查询偏移量
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}
