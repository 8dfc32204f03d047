package handler

import (
	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	service *service.OfferService
}

func NewOfferHandler(s *service.OfferService) *OfferHandler {
	return &OfferHandler{service: s}
}

// Create 发起交换请求
func (h *OfferHandler) Create(c *gin.Context) {
	type req struct {
		ToUserID        uint `json:"to_user_id" binding:"required"`
		OfferedItemID   uint `json:"offered_item_id" binding:"required"`
		RequestedItemID uint `json:"requested_item_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	offer, err := h.service.Create(c.Request.Context(), jwt.GetUserID(c), r.ToUserID, r.OfferedItemID, r.RequestedItemID)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "交换请求已发送", offer)
}

// Respond 接受或拒绝收到的交换请求
func (h *OfferHandler) Respond(c *gin.Context) {
	offerID, ok := pathID(c, "offer_id")
	if !ok {
		return
	}
	type req struct {
		Status string `json:"status" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	offer, err := h.service.Respond(c.Request.Context(), jwt.GetUserID(c), offerID, r.Status)
	if err != nil {
		// 状态已变更但评分部分失败时仍返回最新的请求
		response.FromError(c, err, offer)
		return
	}
	response.SuccessWithMessage(c, "交换请求已处理", offer)
}

// History 已完成的交换
func (h *OfferHandler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, entries)
}

// Transitions 交换请求的状态流转记录
func (h *OfferHandler) Transitions(c *gin.Context) {
	offerID, ok := pathID(c, "offer_id")
	if !ok {
		return
	}
	records, err := h.service.Transitions(c.Request.Context(), jwt.GetUserID(c), offerID)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, records)
}
