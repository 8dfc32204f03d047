package response

import (
	"errors"
	"net/http"

	"case-exchange/internal/apperr"
	"case-exchange/internal/model"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`            // 状态码：0表示成功，其他表示错误
	Message string      `json:"message"`         // 响应消息
	Data    interface{} `json:"data,omitempty"`  // 响应数据
	Error   string      `json:"error,omitempty"` // 错误详情（仅在开发环境显示）
}

// 业务错误对应的响应码
const (
	CodePartialFailure = 207
	CodeConflict       = 409
	CodeUnavailable    = 503
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带错误详情的错误响应
func ErrorWithDetails(c *gin.Context, code int, message string, data interface{}, err error) {
	response := Response{
		Code:    code,
		Message: message,
		Data:    data,
	}

	// 在开发环境下显示错误详情
	if gin.Mode() == gin.DebugMode && err != nil {
		response.Error = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

// FromError 按业务错误类别输出响应
// 部分失败时 data 仍随响应返回，便于调用方对账
func FromError(c *gin.Context, err error, data interface{}) {
	_ = c.Error(err)

	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindNotFound:
		ErrorWithDetails(c, 404, messageOf(err, "资源不存在"), nil, err)
	case apperr.KindValidation:
		ErrorWithDetails(c, 400, messageOf(err, "参数错误"), nil, err)
	case apperr.KindConflict:
		ErrorWithDetails(c, CodeConflict, messageOf(err, "状态冲突"), nil, err)
	case apperr.KindDependency:
		ErrorWithDetails(c, CodeUnavailable, "依赖服务不可用", nil, err)
	case apperr.KindPartialFailure:
		ErrorWithDetails(c, CodePartialFailure, messageOf(err, "部分操作未完成"), data, err)
	default:
		ErrorWithDetails(c, 500, "服务器内部错误", nil, err)
	}
}

// messageOf 优先使用业务错误自带的描述
func messageOf(err error, fallback string) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// BadRequest 400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// Unauthorized 401错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, 401, message)
}

// UserInfo 对外展示的用户信息（隐藏 Telegram ID）
type UserInfo struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	Username            string `json:"username,omitempty"`
	Region              string `json:"region,omitempty"`
	Rating              int    `json:"rating"`
	SuccessfulExchanges int    `json:"successful_exchanges"`
	CreatedAt           string `json:"created_at"`
}

// FilterUserInfo 过滤用户信息，隐藏敏感字段
func FilterUserInfo(user *model.User) *UserInfo {
	if user == nil {
		return nil
	}

	return &UserInfo{
		ID:                  user.ID,
		Name:                user.Name,
		Username:            user.Username,
		Region:              user.Region,
		Rating:              user.Rating,
		SuccessfulExchanges: user.SuccessfulExchanges,
		CreatedAt:           user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// SignInResponse 登录响应
type SignInResponse struct {
	User        *UserInfo `json:"user"`
	AccessToken string    `json:"access_token"`
	Created     bool      `json:"created"`
}
