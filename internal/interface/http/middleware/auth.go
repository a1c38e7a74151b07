package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/response"
)

// identityKey Context中存放授权主体的键
const identityKey = "identity"

// accessTokenCookie 页面路由的Token来源（API调用走Authorization头）
const accessTokenCookie = "access_token"

// loginPath 未登录访问受限页面时的跳转目标
const loginPath = "/auth/login"

// BlacklistChecker Token黑名单查询接口
// 由redis.SessionStore实现；测试时可用内存实现替换
type BlacklistChecker interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证与路由守卫中间件
// 设计说明：
// 1. 身份只来自请求自身携带的凭证（Header或Cookie），
//    解析结果注入当前请求的Context，不存在任何跨请求的全局状态
// 2. 授权判定统一走auth包的集中式策略，中间件不散落角色判断
// 3. 凭证无效（签名错误、过期、黑名单）一律按匿名处理，
//    是否放行由路由的访问级别决定
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  BlacklistChecker
}

// NewAuthMiddleware 创建认证中间件
// blacklist可为nil（未启用Redis时登出不吊销Token）
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist BlacklistChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
	}
}

// RouteGuard 全局路由守卫
// 所有请求先经过此中间件：解析身份（有则注入），再按路径的
// 访问级别放行或拒绝。页面路由未登录时302跳转登录页，
// API路由返回401/403 JSON
func (m *AuthMiddleware) RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.resolveIdentity(c)
		if identity != nil {
			c.Set(identityKey, identity)
		}

		switch auth.MatchRoute(c.Request.URL.Path) {
		case auth.AccessAdmin:
			if identity == nil {
				m.reject(c, apperrors.ErrUnauthorized)
				return
			}
			if !identity.IsAdmin() {
				m.reject(c, apperrors.ErrForbidden)
				return
			}
		case auth.AccessAuthenticated:
			if identity == nil {
				m.reject(c, apperrors.ErrUnauthorized)
				return
			}
		}

		c.Next()
	}
}

// RequireAuth 要求登录（路由组级守卫，与RouteGuard互补）
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			m.reject(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员角色
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			m.reject(c, apperrors.ErrUnauthorized)
			return
		}
		if !identity.IsAdmin() {
			m.reject(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

// resolveIdentity 从请求凭证解析授权主体
// 凭证缺失或无效时返回nil（匿名）
func (m *AuthMiddleware) resolveIdentity(c *gin.Context) *auth.Identity {
	tokenString := m.extractToken(c)
	if tokenString == "" {
		return nil
	}

	// 黑名单中的Token视为无效（用户已登出）
	if m.blacklist != nil {
		blacklisted, err := m.blacklist.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil || blacklisted {
			return nil
		}
	}

	claims, err := m.jwtManager.ParseToken(tokenString)
	if err != nil {
		return nil
	}

	role := auth.Role(claims.Role)
	if !role.Valid() {
		return nil
	}

	return &auth.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}
}

// extractToken 提取Token：先查Authorization头，再查Cookie
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie
}

// reject 按请求类型拒绝：API返回JSON错误，页面302跳转登录
func (m *AuthMiddleware) reject(c *gin.Context, err *apperrors.AppError) {
	if isAPIRequest(c) {
		response.Error(c, err)
		c.Abort()
		return
	}

	c.Redirect(302, loginPath)
	c.Abort()
}

// isAPIRequest API路径以/api/开头
func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// GetIdentity 从Context获取当前授权主体，匿名时返回nil
func GetIdentity(c *gin.Context) *auth.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, ok := v.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}

// MustGetIdentity 获取授权主体（仅用于已通过RequireAuth的Handler）
func MustGetIdentity(c *gin.Context) *auth.Identity {
	identity := GetIdentity(c)
	if identity == nil {
		panic("identity not found in context")
	}
	return identity
}
