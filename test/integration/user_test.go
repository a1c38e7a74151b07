package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 用户模块集成测试
//
// 覆盖场景：
// 1. 注册 + 登录 + 登出全流程
// 2. 注册用户始终为USER角色
// 3. 错误密码、弱密码被拒绝
// 4. 登出后Token失效（黑名单）

func TestUserRegisterLoginLogout(t *testing.T) {
	RequireServer(t)

	email := GenerateTestEmail("flow")
	password := "Test1234"

	t.Run("注册成功且角色为USER", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    email,
			"password": password,
			"nickname": "flow_user",
		}, "")
		require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

		var data struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
		assert.Equal(t, "USER", data.Role, "注册接口不允许指定角色")
	})

	t.Run("重复注册被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    email,
			"password": password,
			"nickname": "flow_user_again",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "重复邮箱应该被拒绝")
	})

	t.Run("弱密码被拒绝", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
			"email":    GenerateTestEmail("weak"),
			"password": "abcdefgh", // 纯字母
			"nickname": "weak_user",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "纯字母密码应该被拒绝")
	})

	var token string

	t.Run("登录成功", func(t *testing.T) {
		token = Login(t, email, password)
	})

	t.Run("错误密码登录失败", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
			"email":    email,
			"password": "Wrong1234",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "错误密码应该失败")
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		require.NotEmpty(t, token)

		resp := PostJSON(t, BaseURL+"/users/logout", nil, token)
		require.Equal(t, 0, resp.Code, "登出失败: %s", resp.Message)

		// 黑名单生效，再次登出应该被拒绝
		resp = PostJSON(t, BaseURL+"/users/logout", nil, token)
		assert.NotEqual(t, 0, resp.Code, "已登出的Token应该失效")
	})
}
