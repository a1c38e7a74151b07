package dto

// CreateBookRequest HTTP图书创建请求
// 金额以"price"字段传入元的字符串表示（"10.99"）或以
// "price_cents"传入分值，二者取其一；两者都给时以分值为准
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,min=2,max=255" example:"Go语言实战"`
	Author      string `json:"author" binding:"required,min=2,max=255" example:"威廉·肯尼迪"`
	Price       string `json:"price" binding:"omitempty" example:"59.00"` // 价格(元)
	PriceCents  int64  `json:"price_cents" binding:"omitempty,min=1" example:"5900"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000" example:"这是一本关于Go语言的实战书籍"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID          uint   `json:"id" example:"1"`
	Title       string `json:"title" example:"Go语言实战"`
	Author      string `json:"author" example:"威廉·肯尼迪"`
	Price       string `json:"price" example:"59.00"` // 价格(元)
	PriceCents  int64  `json:"price_cents" example:"5900"`
	CoverURL    string `json:"cover_url" example:"https://example.com/cover.jpg"`
	Description string `json:"description" example:"这是一本关于Go语言的实战书籍"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"q" binding:"omitempty,max=100" example:"gatsby"` // 搜索关键词
}

// ListBooksResponse HTTP图书列表响应
type ListBooksResponse struct {
	List       []BookResponse `json:"list"`
	Total      int64          `json:"total" example:"100"`
	Page       int            `json:"page" example:"1"`
	PageSize   int            `json:"page_size" example:"20"`
	TotalPages int            `json:"total_pages" example:"5"`
	Keyword    string         `json:"keyword,omitempty" example:"gatsby"`
}
