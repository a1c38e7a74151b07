package integration

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 图书模块集成测试
//
// 覆盖场景：
// 1. 列表查询（公开接口）与关键字搜索（大小写不敏感）
// 2. 管理员创建/删除图书，普通用户与匿名请求被拒绝
// 3. 图书详情与404

func TestBookList(t *testing.T) {
	RequireServer(t)

	t.Run("匿名可以查询列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books", "")
		require.Equal(t, 0, resp.Code, "列表查询应该成功: %s", resp.Message)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.GreaterOrEqual(t, data.Total, int64(0))
		t.Logf("✓ 列表查询成功，共%d本", data.Total)
	})

	t.Run("搜索大小写不敏感", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)
		title := fmt.Sprintf("CaseFold Probe %d", time.Now().UnixNano())
		bookID := CreateTestBook(t, adminToken, title)
		defer DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)

		for _, keyword := range []string{"casefold probe", "CASEFOLD PROBE", "CaseFold Probe"} {
			resp := GetJSON(t, BaseURL+"/books?q="+urlQuery(keyword), "")
			require.Equal(t, 0, resp.Code)

			var data BookListData
			require.NoError(t, json.Unmarshal(resp.Data, &data))

			found := false
			for _, b := range data.List {
				if b.ID == bookID {
					found = true
				}
			}
			assert.True(t, found, "关键字 %q 应该命中", keyword)
		}
	})

	t.Run("新创建的图书排在列表最前", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)
		title := fmt.Sprintf("Newest Probe %d", time.Now().UnixNano())
		bookID := CreateTestBook(t, adminToken, title)
		defer DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)

		resp := GetJSON(t, BaseURL+"/books", "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotEmpty(t, data.List)
		// 列表按创建时间降序
		assert.Equal(t, bookID, data.List[0].ID, "最新创建的图书应该排第一")
	})

	t.Run("关键词匹配作者", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)
		author := fmt.Sprintf("AuthorOnly%d", time.Now().UnixNano())
		bookID := CreateTestBookWith(t, adminToken, "Plain Title", author, "普通描述")
		defer DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)

		resp := GetJSON(t, BaseURL+"/books?q="+urlQuery(author), "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.List, 1, "作者关键词应该命中且只命中这一本")
		assert.Equal(t, bookID, data.List[0].ID)
	})

	t.Run("关键词匹配描述", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)
		marker := fmt.Sprintf("descmark%d", time.Now().UnixNano())
		bookID := CreateTestBookWith(t, adminToken, "Plain Title", "Plain Author",
			"不起眼的描述，藏着"+marker)
		defer DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)

		resp := GetJSON(t, BaseURL+"/books?q="+urlQuery(marker), "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.List, 1, "描述关键词应该命中且只命中这一本")
		assert.Equal(t, bookID, data.List[0].ID)
	})

	t.Run("无匹配时返回空列表", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?q=definitely-no-such-book-xyzzy", "")
		require.Equal(t, 0, resp.Code, "无匹配也应该是成功响应")

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Empty(t, data.List)
		assert.Zero(t, data.Total)
	})
}

func TestBookCreate(t *testing.T) {
	RequireServer(t)

	t.Run("管理员可以创建图书", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)
		title := fmt.Sprintf("Create Probe %d", time.Now().UnixNano())

		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"title":       title,
			"author":      "Integration Author",
			"price":       "29.50",
			"description": "集成测试用图书",
		}, adminToken)
		require.Equal(t, 0, resp.Code, "创建应该成功: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, title, data.Title)
		assert.Equal(t, "29.50", data.Price)
		assert.Equal(t, int64(2950), data.PriceCents)
		assert.NotEmpty(t, data.CoverURL, "未传封面时应该使用占位图")

		DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, data.ID), adminToken)
	})

	t.Run("普通用户不能创建图书", func(t *testing.T) {
		userToken := LoginAsUser(t)

		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"title":  "Forbidden Probe",
			"author": "Nobody",
			"price":  "9.99",
		}, userToken)
		assert.NotEqual(t, 0, resp.Code, "USER角色应该被拒绝")
		t.Logf("✓ 普通用户被拒绝: code=%d %s", resp.Code, resp.Message)
	})

	t.Run("匿名不能创建图书", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"title":  "Anonymous Probe",
			"author": "Nobody",
			"price":  "9.99",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "匿名请求应该被拒绝")
	})

	t.Run("价格必须为正数", func(t *testing.T) {
		adminToken := LoginAsAdmin(t)

		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"title":  "Zero Price Probe",
			"author": "Nobody",
			"price":  "0",
		}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "零价格应该被拒绝")
	})
}

func TestBookDetailAndDelete(t *testing.T) {
	RequireServer(t)

	adminToken := LoginAsAdmin(t)
	title := fmt.Sprintf("Detail Probe %d", time.Now().UnixNano())
	bookID := CreateTestBook(t, adminToken, title)

	t.Run("匿名可以查看详情", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, resp.Code, "详情查询应该成功: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, title, data.Title)
	})

	t.Run("普通用户不能删除", func(t *testing.T) {
		userToken := LoginAsUser(t)
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), userToken)
		assert.NotEqual(t, 0, resp.Code, "USER角色应该被拒绝")
	})

	t.Run("管理员可以删除", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)
		require.Equal(t, 0, resp.Code, "删除应该成功: %s", resp.Message)
	})

	t.Run("删除后详情返回未找到", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		assert.NotEqual(t, 0, resp.Code, "已删除的图书应该返回未找到")
	})

	t.Run("重复删除返回未找到", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), adminToken)
		assert.NotEqual(t, 0, resp.Code, "重复删除应该返回未找到")
	})
}
