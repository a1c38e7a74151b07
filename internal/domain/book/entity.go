package book

import (
	"strings"
	"time"
)

// DefaultCoverURL 未提供封面时使用的占位图
const DefaultCoverURL = "https://via.placeholder.com/400x600?text=No+Image"

// 字段长度约束
const (
	minFieldLen = 2
	maxFieldLen = 255
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含图书目录的核心属性
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. 封面URL必须是HTTPS,未提供时使用占位图
type Book struct {
	ID          uint
	Title       string // 书名
	Author      string // 作者
	PriceCents  int64  // 价格(单位:分,1元=100分)
	CoverURL    string // 封面图片URL
	Description string // 图书描述
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - 书名、作者去除首尾空白后长度须在2-255之间
// - 价格必须>0
// - 封面URL必须以https://开头,空则替换为占位图
func NewBook(title, author string, priceCents int64, coverURL, description string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	coverURL = strings.TrimSpace(coverURL)

	if err := validateField(title); err != nil {
		return nil, ErrInvalidTitle
	}
	if err := validateField(author); err != nil {
		return nil, ErrInvalidAuthor
	}
	if priceCents <= 0 {
		return nil, ErrInvalidPrice
	}
	if coverURL == "" {
		coverURL = DefaultCoverURL
	} else if !strings.HasPrefix(coverURL, "https://") {
		return nil, ErrInvalidCoverURL
	}

	now := time.Now()
	return &Book{
		Title:       title,
		Author:      author,
		PriceCents:  priceCents,
		CoverURL:    coverURL,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (b *Book) UpdatePrice(newPriceCents int64) error {
	if newPriceCents <= 0 {
		return ErrInvalidPrice
	}
	b.PriceCents = newPriceCents
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(空字段跳过)
func (b *Book) UpdateInfo(title, author, description string) error {
	if title = strings.TrimSpace(title); title != "" {
		if err := validateField(title); err != nil {
			return ErrInvalidTitle
		}
		b.Title = title
	}
	if author = strings.TrimSpace(author); author != "" {
		if err := validateField(author); err != nil {
			return ErrInvalidAuthor
		}
		b.Author = author
	}
	if description = strings.TrimSpace(description); description != "" {
		b.Description = description
	}
	b.UpdatedAt = time.Now()
	return nil
}

func validateField(s string) error {
	// 长度按字符计(多字节书名常见)
	n := len([]rune(s))
	if n < minFieldLen || n > maxFieldLen {
		return ErrInvalidTitle
	}
	return nil
}
