package handler

import (
	"strconv"

	"case-exchange/internal/service"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/response"

	"github.com/gin-gonic/gin"
)

// BrowseHandler 浏览候选案例与点赞
type BrowseHandler struct {
	candidates *service.CandidateService
	likes      *service.LikeService
}

func NewBrowseHandler(candidates *service.CandidateService, likes *service.LikeService) *BrowseHandler {
	return &BrowseHandler{candidates: candidates, likes: likes}
}

// Candidates 获取下一批候选案例
// degrade=true 时查询失败返回空列表
func (h *BrowseHandler) Candidates(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		response.BadRequest(c, "invalid limit")
		return
	}
	degrade, _ := strconv.ParseBool(c.DefaultQuery("degrade", "false"))

	page, err := h.candidates.Next(c.Request.Context(), jwt.GetUserID(c), limit, degrade)
	if err != nil {
		response.FromError(c, err, nil)
		return
	}
	response.Success(c, page)
}

// Like 点赞案例
func (h *BrowseHandler) Like(c *gin.Context) {
	caseID, ok := pathID(c, "case_id")
	if !ok {
		return
	}
	result, err := h.likes.RecordLike(c.Request.Context(), jwt.GetUserID(c), caseID)
	if err != nil {
		// 点赞已保存但互赞检查失败时 result 非空，随错误一起返回
		response.FromError(c, err, result)
		return
	}
	if result.Match != nil {
		response.SuccessWithMessage(c, "互相喜欢，匹配成功", result)
		return
	}
	response.Success(c, result)
}
