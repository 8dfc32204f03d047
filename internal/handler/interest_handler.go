package handler

import (
	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	service *service.InterestService
}

func NewInterestHandler(s *service.InterestService) *InterestHandler {
	return &InterestHandler{service: s}
}

func (h *InterestHandler) Add(c *gin.Context) {
	type req struct {
		ItemType      string `json:"item_type" binding:"required"`
		PriceCategory string `json:"price_category" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	interest, err := h.service.Add(c.Request.Context(), jwt.GetUserID(c), r.ItemType, r.PriceCategory)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "兴趣已添加", interest)
}

func (h *InterestHandler) List(c *gin.Context) {
	interests, err := h.service.List(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, interests)
}

func (h *InterestHandler) Delete(c *gin.Context) {
	interestID, ok := pathID(c, "interest_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), jwt.GetUserID(c), interestID); err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "兴趣已删除", nil)
}
