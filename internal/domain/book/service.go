package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验,权限判定在上层(应用层)完成
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 创建图书(上架)
	// 业务规则:
	// - 书名、作者长度2-255
	// - 价格必须>0(单位:分)
	// - 封面URL必须是HTTPS,空则使用占位图
	CreateBook(ctx context.Context, title, author string, priceCents int64, coverURL, description string) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// DeleteBook 删除图书,目标不存在时返回ErrBookNotFound
	DeleteBook(ctx context.Context, id uint) error

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, query Query) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title, author string, priceCents int64, coverURL, description string) (*Book, error) {
	// 1. 构造实体(含全部字段校验)
	b, err := NewBook(title, author, priceCents, coverURL, description)
	if err != nil {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

// DeleteBook 删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, query Query) ([]*Book, int64, error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}
