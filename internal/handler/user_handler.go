package handler

import (
	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// SignIn Telegram 登录，首次登录自动创建用户
func (h *UserHandler) SignIn(c *gin.Context) {
	type req struct {
		TelegramID string `json:"telegram_id" binding:"required"`
		Name       string `json:"name"`
		Username   string `json:"username"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, token, created, err := h.service.SignIn(c.Request.Context(), r.TelegramID, r.Name, r.Username)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}

	response.SuccessWithMessage(c, "登录成功", &response.SignInResponse{
		User:        response.FilterUserInfo(user),
		AccessToken: token,
		Created:     created,
	})
}

// Me 当前用户资料
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, response.FilterUserInfo(user))
}

// UpdateRegion 设置当前用户的地区
func (h *UserHandler) UpdateRegion(c *gin.Context) {
	type req struct {
		Region string `json:"region"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.UpdateRegion(c.Request.Context(), jwt.GetUserID(c), r.Region)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "地区已更新", response.FilterUserInfo(user))
}

// Rating 用户评分
func (h *UserHandler) Rating(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	rating, err := h.service.GetRating(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, rating)
}
