package handler

import (
	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	service *service.FeedService
}

func NewFeedHandler(s *service.FeedService) *FeedHandler {
	return &FeedHandler{service: s}
}

// Get 通知列表，读取后角标清零
func (h *FeedHandler) Get(c *gin.Context) {
	feed, err := h.service.Feed(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, feed)
}

// Clear 清空当前可见的通知
func (h *FeedHandler) Clear(c *gin.Context) {
	cleared, err := h.service.Clear(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "通知已清空", gin.H{"cleared": cleared})
}

// Badge 未读通知数
func (h *FeedHandler) Badge(c *gin.Context) {
	count, err := h.service.Badge(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, gin.H{"count": count})
}
