package dto

// CheckoutQuery 结算页查询参数
// title/price来自商品详情页的跳转链接，是原始字符串，
// 模拟结算不回查图书表
type CheckoutQuery struct {
	Title string `form:"title" binding:"required,max=255"`
	Price string `form:"price" binding:"required,max=20"`
}

// CheckoutRequest 支付请求
type CheckoutRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	Price string `json:"price" binding:"required,max=20"`
}

// CheckoutResponse 支付结果响应
type CheckoutResponse struct {
	TransactionNo string `json:"transaction_no" example:"PAY20240115103000123456"`
	Status        string `json:"status" example:"SUCCESS"`
	PaidAt        string `json:"paid_at" example:"2024-01-15T10:30:02+08:00"`
}
