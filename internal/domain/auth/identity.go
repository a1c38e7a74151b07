// Package auth 定义访问主体（Identity）与集中式授权策略
//
// 设计说明：
// 授权决策集中在本包，调用方（中间件、应用服务）只提问
// “这个身份能否对该资源执行该操作”，不各自散落角色判断。
// 身份信息通过参数显式传递，不依赖隐式的会话全局状态。
package auth

// Role 用户角色
type Role string

const (
	// RoleAdmin 管理员：可管理图书（创建、删除）
	RoleAdmin Role = "ADMIN"

	// RoleUser 普通用户：可浏览、结算
	RoleUser Role = "USER"
)

// Valid 检查角色是否为已知值
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Identity 已认证的访问主体
//
// 由JWT Claims解析而来，匿名访问用nil *Identity表示。
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Role   Role
}

// IsAdmin 是否为管理员
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
