package book

import (
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// BookDTO 图书传输对象
// 说明：
// 1. 价格同时提供展示串（"10.99"）与分值，展示层不做金额运算
// 2. 领域模型变更不影响API契约
type BookDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       string `json:"price"`       // 展示价格（元，两位小数）
	PriceCents  int64  `json:"price_cents"` // 价格（分）
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// FormatPrice 分 → 元的展示串（1099 → "10.99"）
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// toDTO 领域实体 → DTO
func toDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       FormatPrice(b.PriceCents),
		PriceCents:  b.PriceCents,
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
