// Package testkit 提供模拟 Alpha Vantage 服务端，供各包测试使用。
package testkit

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
)

// Response 为某个 function 预设的响应
type Response struct {
	Status      int
	Body        string
	ContentType string
}

// RecordedRequest 服务端收到的一次请求
type RecordedRequest struct {
	Query  url.Values
	Header http.Header
}

// MockServer 模拟 /query 接口，按 function 参数返回预设响应
type MockServer struct {
	server    *httptest.Server
	mu        sync.RWMutex
	responses map[string]Response // function -> response
	requests  []RecordedRequest
}

// NewMockServer 创建并启动模拟服务端
func NewMockServer() *MockServer {
	gin.SetMode(gin.TestMode)

	m := &MockServer{responses: make(map[string]Response)}

	router := gin.New()
	router.GET("/query", m.handleQuery)
	m.server = httptest.NewServer(router)
	return m
}

// URL 返回 /query 接口的完整地址
func (m *MockServer) URL() string {
	return m.server.URL + "/query"
}

// Close 关闭模拟服务端
func (m *MockServer) Close() {
	if m.server != nil {
		m.server.Close()
	}
}

// SetJSON 为 function 设置 JSON 响应
func (m *MockServer) SetJSON(function, body string) {
	m.Set(function, Response{Status: http.StatusOK, Body: body, ContentType: "application/json"})
}

// SetCSV 为 function 设置分隔文本响应
func (m *MockServer) SetCSV(function, body string) {
	m.Set(function, Response{Status: http.StatusOK, Body: body, ContentType: "application/x-download"})
}

// Set 为 function 设置任意响应
func (m *MockServer) Set(function string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[function] = resp
}

// Requests 返回收到的全部请求
func (m *MockServer) Requests() []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestCount 收到的请求数
func (m *MockServer) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequest 最近一次请求，没有请求时返回零值
func (m *MockServer) LastRequest() RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}
	}
	return m.requests[len(m.requests)-1]
}

func (m *MockServer) handleQuery(c *gin.Context) {
	query := c.Request.URL.Query()
	function := query.Get("function")

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{Query: query, Header: c.Request.Header.Clone()})
	resp, ok := m.responses[function]
	m.mu.Unlock()

	if !ok {
		// 与真实接口一致：未知 function 仍返回 200 与错误消息
		c.JSON(http.StatusOK, gin.H{
			"Error Message": "This API function (" + function + ") does not exist.",
		})
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(status, contentType, []byte(resp.Body))
}
