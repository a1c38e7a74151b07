package user

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/auth"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不提供暴露明文的方法
// 2. Role决定授权策略的判定结果（ADMIN可管理图书）
// 3. 领域实体不依赖GORM tag（infrastructure层做映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      auth.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码；role为空时默认USER
func NewUser(email, hashedPassword, nickname string, role auth.Role) *User {
	if !role.Valid() {
		role = auth.RoleUser
	}
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Identity 导出为授权主体
func (u *User) Identity() *auth.Identity {
	return &auth.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Nickname,
		Role:   u.Role,
	}
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
