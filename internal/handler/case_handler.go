package handler

import (
	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

type CaseHandler struct {
	service *service.CaseService
}

func NewCaseHandler(s *service.CaseService) *CaseHandler {
	return &CaseHandler{service: s}
}

// Create 发布案例
func (h *CaseHandler) Create(c *gin.Context) {
	var in service.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := h.service.Create(c.Request.Context(), jwt.GetUserID(c), in)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "案例已发布", created)
}

// Update 修改自己的案例
func (h *CaseHandler) Update(c *gin.Context) {
	caseID, ok := pathID(c, "case_id")
	if !ok {
		return
	}
	var in service.CaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.service.Update(c.Request.Context(), jwt.GetUserID(c), caseID, in)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "案例已更新", updated)
}

// Delete 删除自己的案例
func (h *CaseHandler) Delete(c *gin.Context) {
	caseID, ok := pathID(c, "case_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), jwt.GetUserID(c), caseID); err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "案例已删除", nil)
}

// ListMine 我的案例
func (h *CaseHandler) ListMine(c *gin.Context) {
	cases, err := h.service.ListMine(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, cases)
}

// ListArchived 我的归档案例
func (h *CaseHandler) ListArchived(c *gin.Context) {
	cases, err := h.service.ListArchived(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, cases)
}

// Restore 恢复归档案例
func (h *CaseHandler) Restore(c *gin.Context) {
	caseID, ok := pathID(c, "case_id")
	if !ok {
		return
	}
	restored, err := h.service.Restore(c.Request.Context(), jwt.GetUserID(c), caseID)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.SuccessWithMessage(c, "案例已恢复", restored)
}

// ListByUser 查看其他用户的资料和案例
func (h *CaseHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	user, cases, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, gin.H{
		"user":  response.FilterUserInfo(user),
		"cases": cases,
	})
}

// Favorites 我点赞过的案例
func (h *CaseHandler) Favorites(c *gin.Context) {
	favs, err := h.service.Favorites(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, favs)
}
