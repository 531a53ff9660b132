package error

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// Category 错误大类，决定错误的传播与重试策略
type Category string

const (
	// CategoryConfig 配置错误：构造阶段致命，不重试
	CategoryConfig Category = "config"
	// CategoryUpstream 上游数据错误：API 返回的错误/提示，可选择有限重试
	CategoryUpstream Category = "upstream"
	// CategoryShaping 本地整形错误：输出格式转换失败
	CategoryShaping Category = "shaping"
	// CategoryTransport 传输错误：网络或 HTTP 状态异常
	CategoryTransport Category = "transport"
)

const (
	ErrConfigInvalid     ErrorCode = "CONFIG_INVALID"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrInvalidArgument   ErrorCode = "INVALID_ARGUMENT"
	ErrUnsupportedValue  ErrorCode = "UNSUPPORTED_VALUE"
	ErrEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	ErrAPIError          ErrorCode = "API_ERROR"
	ErrAPIInformation    ErrorCode = "API_INFORMATION"
	ErrAPINote           ErrorCode = "API_NOTE"
	ErrShapingFailed     ErrorCode = "SHAPING_FAILED"
	ErrInvalidResponse   ErrorCode = "INVALID_RESPONSE"
	ErrTransportFailed   ErrorCode = "TRANSPORT_FAILED"
	ErrCircuitOpen       ErrorCode = "CIRCUIT_OPEN"
	ErrOperationNotFound ErrorCode = "OPERATION_NOT_FOUND"
)

var categories = map[ErrorCode]Category{
	ErrConfigInvalid:     CategoryConfig,
	ErrUnsupportedFormat: CategoryConfig,
	ErrInvalidArgument:   CategoryConfig,
	ErrUnsupportedValue:  CategoryConfig,
	ErrOperationNotFound: CategoryConfig,
	ErrEmptyResponse:     CategoryUpstream,
	ErrAPIError:          CategoryUpstream,
	ErrAPIInformation:    CategoryUpstream,
	ErrAPINote:           CategoryUpstream,
	ErrShapingFailed:     CategoryShaping,
	ErrInvalidResponse:   CategoryShaping,
	ErrTransportFailed:   CategoryTransport,
	ErrCircuitOpen:       CategoryTransport,
}

// BaseError 基础错误类型
type BaseError struct {
	Code      ErrorCode              `json:"code"`              // 错误的分类代码
	Message   string                 `json:"message"`           // 人类可读的错误信息，上游错误时为原文
	Cause     error                  `json:"-"`                 // 导致此错误的原始错误
	Context   map[string]interface{} `json:"context,omitempty"` // 额外的上下文信息
	Timestamp time.Time              `json:"timestamp"`         // 错误发生的时间戳
}

// NewError 创建新的基础错误
func NewError(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]interface{}),
	}
}

// Errorf 按格式创建基础错误
func Errorf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Error 实现 error 接口
func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 支持错误包装
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// Is 支持错误比较
func (e *BaseError) Is(target error) bool {
	if t, ok := target.(*BaseError); ok {
		return e.Code == t.Code
	}
	return false
}

// Category 返回错误所属大类
func (e *BaseError) Category() Category {
	if c, ok := categories[e.Code]; ok {
		return c
	}
	return CategoryShaping
}

// WithContext 为错误附加一个键值对形式的上下文信息。
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WrapError 包装现有错误
func WrapError(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   make(map[string]interface{}),
	}
}

// CodeOf 提取错误链中的错误代码，非 BaseError 返回空串
func CodeOf(err error) ErrorCode {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// CategoryOf 提取错误链中的错误大类
func CategoryOf(err error) Category {
	var be *BaseError
	if errors.As(err, &be) {
		return be.Category()
	}
	return ""
}

// IsUpstream 是否为上游数据错误
func IsUpstream(err error) bool {
	return CategoryOf(err) == CategoryUpstream
}

// IsConfig 是否为配置错误
func IsConfig(err error) bool {
	return CategoryOf(err) == CategoryConfig
}
