package utils

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// 各验证函数的默认上限
const (
	DefaultMaxStringLen   = 255
	DefaultMaxQueryLen    = 100
	DefaultMaxMetadataLen = 10240
)

var (
	idPattern = regexp.MustCompile(`^\d+$`)
	// 检索词只保留字母、数字、下划线、空白、连字符和撇号
	// （撇号是为了 "Bird's Nest" 这类植物名）
	queryStrip = regexp.MustCompile(`[^a-zA-Z0-9_\s\-']`)
)

// ValidateID 校验并解析 ID 参数。
// 只接受纯数字字符串，不做去空格处理，0、负数、小数、带尾部字符的输入一律无效。
func ValidateID(raw string) (int, bool) {
	if raw == "" || !idPattern.MatchString(raw) {
		return 0, false
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, false
	}

	return parsed, true
}

// ValidateString 校验并清理字符串输入。
// 去掉首尾空白，空串无效；超长内容截断到 maxLength 个字符而不是拒绝。
func ValidateString(raw string, maxLength int) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	runes := []rune(trimmed)
	if len(runes) > maxLength {
		return string(runes[:maxLength]), true
	}

	return trimmed, true
}

// ValidateSearchQuery 清理检索词。从不失败：非法输入返回空串。
func ValidateSearchQuery(raw string, maxLength int) string {
	sanitized := strings.TrimSpace(raw)

	runes := []rune(sanitized)
	if len(runes) > maxLength {
		sanitized = string(runes[:maxLength])
	}

	return queryStrip.ReplaceAllString(sanitized, "")
}

// SanitizeMetadata 校验并清理 metadata。
// 只接受 JSON 对象（数组、标量无效），序列化后超过 maxBytes 无效；
// 通过序列化/反序列化往返产生深拷贝，以挡掉原型污染类的载荷。
func SanitizeMetadata(raw json.RawMessage, maxBytes int) (json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}

	clean, err := json.Marshal(obj)
	if err != nil {
		return nil, false
	}

	if len(clean) > maxBytes {
		return nil, false
	}

	return clean, true
}

// ValidateRequired 检查必填字段。
// 字段缺失、为 null 或空串视为缺失；0 和 false 不算缺失。
func ValidateRequired(body map[string]any, fields []string) (bool, []string) {
	var missing []string

	for _, field := range fields {
		value, ok := body[field]
		if !ok || value == nil || value == "" {
			missing = append(missing, field)
		}
	}

	return len(missing) == 0, missing
}
