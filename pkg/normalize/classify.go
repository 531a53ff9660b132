package normalize

import (
	"bytes"

	"github.com/tidwall/gjson"

	averr "alphavantage/pkg/error"
)

// 上游在成功响应中也可能携带的提示键
const (
	keyErrorMessage = "Error Message"
	keyInformation  = "Information"
	keyNote         = "Note"
)

// Classify 检查结构化响应体中的错误，按优先级：空响应、错误消息、提示、频率说明。
// 提示与频率说明只在 treatInfoAsError 为真时视为错误。
func Classify(body []byte, treatInfoAsError bool) (gjson.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return gjson.Result{}, averr.NewError(averr.ErrEmptyResponse, "empty response from the API")
	}
	if !gjson.ValidBytes(trimmed) {
		return gjson.Result{}, averr.NewError(averr.ErrInvalidResponse, "response is not valid JSON")
	}

	root := gjson.ParseBytes(trimmed)
	if isEmptyValue(root) {
		return root, averr.NewError(averr.ErrEmptyResponse, "empty response from the API")
	}
	if !root.IsObject() {
		return root, nil
	}

	if msg, ok := field(root, keyErrorMessage); ok {
		return root, averr.NewError(averr.ErrAPIError, msg.String())
	}
	if treatInfoAsError {
		if msg, ok := field(root, keyInformation); ok {
			return root, averr.NewError(averr.ErrAPIInformation, msg.String())
		}
		if msg, ok := field(root, keyNote); ok {
			return root, averr.NewError(averr.ErrAPINote, msg.String())
		}
	}
	return root, nil
}

func isEmptyValue(r gjson.Result) bool {
	switch {
	case r.Type == gjson.Null:
		return true
	case r.IsObject(), r.IsArray():
		empty := true
		r.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	}
	return false
}

// field 按原样的键名查找子节点，键名中的点与通配符不做路径解释
func field(obj gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}
