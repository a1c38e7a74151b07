package handler

import (
	"github.com/gin-gonic/gin"

	appcheckout "github.com/xiebiao/bookshop/internal/application/checkout"
	"github.com/xiebiao/bookshop/internal/interface/http/dto"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// CheckoutHandler 结算HTTP处理器
type CheckoutHandler struct {
	checkout *appcheckout.UseCase
}

// NewCheckoutHandler 创建结算处理器
func NewCheckoutHandler(checkout *appcheckout.UseCase) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Summary 结算页摘要
// @Summary      结算摘要
// @Description  回显待结算的商品名与金额（来自详情页跳转参数）
// @Tags         结算
// @Produce      json
// @Security     BearerAuth
// @Param        title query string true "商品名"
// @Param        price query string true "金额"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /checkout [get]
func (h *CheckoutHandler) Summary(c *gin.Context) {
	var query dto.CheckoutQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	identity := middleware.GetIdentity(c)

	summary, err := h.checkout.GetSummary(c.Request.Context(), identity, appcheckout.SummaryRequest{
		Title: query.Title,
		Price: query.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summary)
}

// Pay 模拟支付
// @Summary      模拟支付
// @Description  经模拟网关扣款（约2秒），返回支付流水号；不落订单库
// @Tags         结算
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CheckoutRequest true "结算信息"
// @Success      200 {object} response.Response{data=dto.CheckoutResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/checkout [post]
func (h *CheckoutHandler) Pay(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40901, "参数错误: "+err.Error())
		return
	}

	identity := middleware.GetIdentity(c)

	result, err := h.checkout.Pay(c.Request.Context(), identity, appcheckout.PayRequest{
		Title: req.Title,
		Price: req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CheckoutResponse{
		TransactionNo: result.TransactionNo,
		Status:        result.Status,
		PaidAt:        result.PaidAt,
	})
}
