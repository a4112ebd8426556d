package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/internal/service"
	"github.com/tambongslade/LockBook/backend/pkg/jwt"
	"github.com/tambongslade/LockBook/backend/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID       = "user_id"
	CtxRole         = "role"
	CtxDepartmentID = "department_id"
	CtxClaims       = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetActor 从 Gin 上下文中组装当前请求的认证主体
func MustGetActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := c.Get(CtxRole)
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	r, ok := role.(model.Role)
	if !ok || !r.Valid() {
		response.Unauthorized(c, 10002, "未认证")
		return service.Actor{}, false
	}
	return service.Actor{
		UserID:       userID,
		Role:         r,
		DepartmentID: c.GetString(CtxDepartmentID),
	}, true
}

// GetClaims 当前 Access Token 的声明；未经过 JWTAuth 时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

// ParamUUID 读取并校验 UUID 路径参数，非法时写入 400 响应
func ParamUUID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if err := uuid.Validate(id); err != nil {
		response.BadRequest(c, 10001, "无效的 ID: "+name)
		return "", false
	}
	return id, true
}

// bindJSON 解析请求体；超过 BodyLimit 时返回 413，其余解析失败返回 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.BadRequest(c, 10001, "参数校验失败")
		return false
	}
	return true
}
