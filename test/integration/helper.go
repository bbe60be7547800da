//go:build integration

// Package integration 针对运行中服务的黑盒测试
//
// 运行方式：
//
//	go run ./cmd/api            # 另一个终端启动服务
//	go test -tags integration ./test/integration/...
//
// 服务地址与管理员账号可通过环境变量覆盖：
// POS_BASE_URL、POS_ADMIN_EMAIL（需与auth.bootstrap_admin_email一致）、POS_ADMIN_PASSWORD
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	defaultBaseURL       = "http://localhost:8080/api/v1"
	defaultAdminEmail    = "admin@pos.local"
	defaultAdminPassword = "Admin1234"

	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

var (
	// BaseURL API基础URL
	BaseURL = envOr("POS_BASE_URL", defaultBaseURL)

	client = &http.Client{Timeout: Timeout}
	seq    atomic.Int64
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	User struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProductData 商品响应数据
type ProductData struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Stock     int    `json:"stock"`
}

// SaleData 销售单响应数据
type SaleData struct {
	ID     uint   `json:"id"`
	SaleNo string `json:"sale_no"`
	Total  string `json:"total"`
	Items  []struct {
		ProductID uint   `json:"product_id"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unit_price"`
		Subtotal  string `json:"subtotal"`
	} `json:"items"`
}

// Do 发送请求并解析JSON响应
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var reader io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败（服务是否已启动？）")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(body, &result), "解析JSON响应失败: %s", string(body))
	return &result
}

// Decode 解析data字段
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "解析响应数据失败: %s", string(resp.Data))
	return v
}

// GenerateTestEmail 生成唯一的测试邮箱
// 时间戳加进程内序号，同一秒内多次调用也不会冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().Unix(), seq.Add(1))
}

func login(t *testing.T, email, password string) LoginData {
	t.Helper()
	resp := Do(t, http.MethodPost, BaseURL+"/users/login", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)
	return Decode[LoginData](t, resp)
}

// RegisterTestUser 注册员工并返回Token与用户ID
func RegisterTestUser(t *testing.T, name string) (token string, userID uint) {
	t.Helper()

	email := GenerateTestEmail("clerk")
	resp := Do(t, http.MethodPost, BaseURL+"/users/register", map[string]string{
		"email": email, "password": "Test1234", "name": name,
	}, "")
	require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

	data := login(t, email, "Test1234")
	return data.AccessToken, data.User.ID
}

// AdminToken 登录引导管理员（首次运行时自动注册）
func AdminToken(t *testing.T) string {
	t.Helper()

	email := envOr("POS_ADMIN_EMAIL", defaultAdminEmail)
	password := envOr("POS_ADMIN_PASSWORD", defaultAdminPassword)

	resp := Do(t, http.MethodPost, BaseURL+"/users/register", map[string]string{
		"email": email, "password": password, "name": "管理员",
	}, "")
	if resp.Code != 0 {
		require.Equal(t, "EmailDuplicate", resp.Kind, "注册管理员失败: %s", resp.Message)
	}

	data := login(t, email, password)
	require.Equal(t, "admin", data.User.Role, "%s 不是管理员，检查auth.bootstrap_admin_email", email)
	return data.AccessToken
}

// CreateTestProduct 新增商品并返回ID
func CreateTestProduct(t *testing.T, adminToken, name, price string, stock int) uint {
	t.Helper()

	resp := Do(t, http.MethodPost, BaseURL+"/products", map[string]interface{}{
		"name":       name,
		"unit_price": price,
		"stock":      stock,
	}, adminToken)
	require.Equal(t, 0, resp.Code, "新增商品失败: %s", resp.Message)
	return Decode[ProductData](t, resp).ID
}

// StockOf 查询当前库存
func StockOf(t *testing.T, adminToken string, productID uint) int {
	t.Helper()

	resp := Do(t, http.MethodGet, fmt.Sprintf("%s/products/%d", BaseURL, productID), nil, adminToken)
	require.Equal(t, 0, resp.Code, "查询商品失败: %s", resp.Message)
	return Decode[ProductData](t, resp).Stock
}

// Item 下单明细
func Item(productID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{"product_id": productID, "quantity": quantity}
}

// PlaceSale 下单
func PlaceSale(t *testing.T, token string, items ...map[string]interface{}) *Response {
	t.Helper()
	return Do(t, http.MethodPost, BaseURL+"/sales", map[string]interface{}{"items": items}, token)
}
