package auth

import "strings"

// 资源与操作的命名常量
//
// 业务规则：
// 1. 图书的创建、删除仅限管理员
// 2. 结算、个人中心需要登录
// 3. 图书的浏览、搜索、详情对所有人开放
const (
	ResourceBook     = "book"
	ResourceCheckout = "checkout"
	ResourceProfile  = "profile"

	ActionList   = "list"
	ActionRead   = "read"
	ActionCreate = "create"
	ActionDelete = "delete"
	ActionPay    = "pay"
	ActionView   = "view"
)

// Authorize 集中式授权判定
//
// identity为nil表示匿名访问。返回false时调用方应区分
// 未登录（401/跳转登录）与权限不足（403）。
func Authorize(identity *Identity, resource, action string) bool {
	switch resource {
	case ResourceBook:
		switch action {
		case ActionList, ActionRead:
			// 目录浏览对所有人开放
			return true
		case ActionCreate, ActionDelete:
			return identity.IsAdmin()
		}
	case ResourceCheckout:
		switch action {
		case ActionView, ActionPay:
			return identity != nil
		}
	case ResourceProfile:
		if action == ActionView {
			return identity != nil
		}
	}
	// 未知的资源/操作一律拒绝
	return false
}

// AccessLevel 路由访问级别
type AccessLevel int

const (
	// AccessPublic 公开路由，无需登录
	AccessPublic AccessLevel = iota

	// AccessAuthenticated 需要登录
	AccessAuthenticated

	// AccessAdmin 需要管理员角色
	AccessAdmin
)

// 路由守卫规则
//
// 匹配优先级：管理员规则先于登录规则，前缀规则与精确规则并存。
// /books/new是精确匹配：/books/newly-added这类路径不受其约束。
var (
	adminPrefixes = []string{"/admin"}
	adminExact    = []string{"/books/new"}

	authedPrefixes = []string{"/checkout", "/user"}
)

// MatchRoute 判定路径的访问级别
//
// 仅针对页面与API的请求路径做守卫分类，查询串不参与匹配。
func MatchRoute(path string) AccessLevel {
	for _, p := range adminExact {
		if path == p {
			return AccessAdmin
		}
	}
	for _, p := range adminPrefixes {
		if matchPrefix(path, p) {
			return AccessAdmin
		}
	}
	for _, p := range authedPrefixes {
		if matchPrefix(path, p) {
			return AccessAuthenticated
		}
	}
	return AccessPublic
}

// matchPrefix 按路径段匹配前缀
//
// /user匹配/user和/user/profile，但不匹配/users。
func matchPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
