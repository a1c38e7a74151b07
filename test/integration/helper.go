package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 前置条件：
//  1. 服务已启动（go run ./cmd/api）
//  2. 种子数据已写入（go run ./cmd/seed）
// 服务不可达时测试自动跳过，不会误报失败

const (
	// Host 服务地址
	Host = "http://localhost:8080"
	// BaseURL API基础URL
	BaseURL = Host + "/api/v1"
	// Timeout HTTP请求超时时间（支付模拟固定2秒，留足余量）
	Timeout = 10 * time.Second

	// 种子数据中的演示账号
	AdminEmail    = "admin@bookstore.com"
	AdminPassword = "admin123"
	UserEmail     = "user@bookstore.com"
	UserPassword  = "user123"
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       string `json:"price"`
	PriceCents  int64  `json:"price_cents"`
	CoverURL    string `json:"cover_url"`
	Description string `json:"description"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
	Keyword    string     `json:"keyword"`
}

// LoginData 登录响应数据
type LoginData struct {
	User struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CheckoutData 结算响应数据
type CheckoutData struct {
	TransactionNo string `json:"transaction_no"`
	Status        string `json:"status"`
	PaidAt        string `json:"paid_at"`
}

// RequireServer 服务不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", "localhost:8080", time.Second)
	if err != nil {
		t.Skipf("服务未启动，跳过集成测试: %v", err)
	}
	conn.Close()
}

// DoJSON 发送HTTP请求并解析统一响应
func DoJSON(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))

	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return DoJSON(t, "POST", url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, "GET", url, nil, token)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, "DELETE", url, nil, token)
}

// Login 登录并返回AccessToken
func Login(t *testing.T, email, password string) string {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	require.NotEmpty(t, data.AccessToken, "AccessToken不应为空")

	return data.AccessToken
}

// LoginAsAdmin 以种子管理员登录
func LoginAsAdmin(t *testing.T) string {
	return Login(t, AdminEmail, AdminPassword)
}

// LoginAsUser 以种子普通用户登录
func LoginAsUser(t *testing.T) string {
	return Login(t, UserEmail, UserPassword)
}

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// urlQuery 对查询参数做URL编码
func urlQuery(s string) string {
	return url.QueryEscape(s)
}

// CreateTestBook 管理员创建图书并返回图书ID
func CreateTestBook(t *testing.T, adminToken, title string) uint {
	t.Helper()
	return CreateTestBookWith(t, adminToken, title, "Integration Author", "集成测试用图书")
}

// CreateTestBookWith 指定作者与描述创建图书（搜索测试用）
func CreateTestBookWith(t *testing.T, adminToken, title, author, description string) uint {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"title":       title,
		"author":      author,
		"price":       "19.99",
		"description": description,
	}, adminToken)
	require.Equal(t, 0, resp.Code, "创建图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	require.NotZero(t, data.ID, "图书ID应该大于0")

	return data.ID
}
