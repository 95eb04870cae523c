package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
		ok    bool
	}{
		{"simple", "123", 123, true},
		{"one", "1", 1, true},
		{"large", "999999999", 999999999, true},
		{"leading zeros admitted", "007", 7, true},
		{"empty", "", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-1", 0, false},
		{"decimal", "1.5", 0, false},
		{"trailing garbage", "12abc", 0, false},
		{"letters", "abc", 0, false},
		{"surrounding whitespace", "  42  ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ValidateID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateString(t *testing.T) {
	got, ok := ValidateString("hello", DefaultMaxStringLen)
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	got, ok = ValidateString("  hello  ", DefaultMaxStringLen)
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	_, ok = ValidateString("", DefaultMaxStringLen)
	assert.False(t, ok)

	_, ok = ValidateString("   ", DefaultMaxStringLen)
	assert.False(t, ok)
}

func TestValidateStringTruncates(t *testing.T) {
	got, ok := ValidateString("hello world", 5)
	require.True(t, ok)
	assert.Equal(t, "hello", got)

	// 超长输入必须截断到恰好 maxLength 个字符
	long := strings.Repeat("a", 300)
	got, ok = ValidateString(long, DefaultMaxStringLen)
	require.True(t, ok)
	assert.Len(t, []rune(got), DefaultMaxStringLen)

	// 多字节字符按字符数截断，不能截出半个字符
	got, ok = ValidateString("蔓绿绒属植物", 3)
	require.True(t, ok)
	assert.Equal(t, "蔓绿绒", got)
}

func TestValidateSearchQuery(t *testing.T) {
	assert.Equal(t, "alocasia", ValidateSearchQuery("alocasia", DefaultMaxQueryLen))
	assert.Equal(t, "monstera", ValidateSearchQuery("  monstera  ", DefaultMaxQueryLen))
	assert.Equal(t, "", ValidateSearchQuery("", DefaultMaxQueryLen))

	// 危险字符被剥除而不是报错
	assert.Equal(t, "plantscript", ValidateSearchQuery("plant<script>", DefaultMaxQueryLen))
	assert.Equal(t, "testparam1", ValidateSearchQuery("test&param=1", DefaultMaxQueryLen))

	// 植物名常见的连字符和撇号要放行
	assert.Equal(t, "Bird's Nest", ValidateSearchQuery("Bird's Nest", DefaultMaxQueryLen))
	assert.Equal(t, "Alocasia-hybrid", ValidateSearchQuery("Alocasia-hybrid", DefaultMaxQueryLen))

	long := strings.Repeat("a", 150)
	assert.Len(t, ValidateSearchQuery(long, DefaultMaxQueryLen), DefaultMaxQueryLen)
}

func TestSanitizeMetadata(t *testing.T) {
	clean, ok := SanitizeMetadata(json.RawMessage(`{"patent":"PP12345","breeder":"LariAnn Garner"}`), DefaultMaxMetadataLen)
	require.True(t, ok)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(clean, &obj))
	assert.Equal(t, "PP12345", obj["patent"])
}

func TestSanitizeMetadataRejects(t *testing.T) {
	_, ok := SanitizeMetadata(json.RawMessage(`[1,2,3]`), DefaultMaxMetadataLen)
	assert.False(t, ok, "数组不是合法的 metadata")

	_, ok = SanitizeMetadata(json.RawMessage(`"just a string"`), DefaultMaxMetadataLen)
	assert.False(t, ok)

	_, ok = SanitizeMetadata(json.RawMessage(`null`), DefaultMaxMetadataLen)
	assert.False(t, ok)

	_, ok = SanitizeMetadata(nil, DefaultMaxMetadataLen)
	assert.False(t, ok)

	_, ok = SanitizeMetadata(json.RawMessage(`{"broken":`), DefaultMaxMetadataLen)
	assert.False(t, ok)

	big := `{"notes":"` + strings.Repeat("x", DefaultMaxMetadataLen) + `"}`
	_, ok = SanitizeMetadata(json.RawMessage(big), DefaultMaxMetadataLen)
	assert.False(t, ok, "超过字节上限必须拒绝")
}

func TestSanitizeMetadataRoundTrip(t *testing.T) {
	raw := json.RawMessage(`{"care": {"water": "weekly", "light": "bright indirect"}, "year": 2023}`)

	once, ok := SanitizeMetadata(raw, DefaultMaxMetadataLen)
	require.True(t, ok)

	twice, ok := SanitizeMetadata(once, DefaultMaxMetadataLen)
	require.True(t, ok)

	assert.Equal(t, string(once), string(twice))
}

func TestValidateRequired(t *testing.T) {
	body := map[string]any{
		"scientific_name": "Monstera deliciosa",
		"year":            0,
		"archived":        false,
		"nickname":        "",
		"notes":           nil,
	}

	valid, missing := ValidateRequired(body, []string{"scientific_name"})
	assert.True(t, valid)
	assert.Empty(t, missing)

	// 0 和 false 不算缺失
	valid, missing = ValidateRequired(body, []string{"year", "archived"})
	assert.True(t, valid)
	assert.Empty(t, missing)

	// 空串、null 和完全缺失都算缺失
	valid, missing = ValidateRequired(body, []string{"nickname", "notes", "absent"})
	assert.False(t, valid)
	assert.Equal(t, []string{"nickname", "notes", "absent"}, missing)
}

func TestGeneratePhotoKey(t *testing.T) {
	key, err := GeneratePhotoKey(42, "IMG_2041.JPEG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "plant-42-"))
	assert.True(t, strings.HasSuffix(key, ".jpeg"))
	assert.True(t, ValidatePhotoKey(key))

	key, err = GeneratePhotoKey(7, "noextension")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestValidatePhotoKey(t *testing.T) {
	assert.True(t, ValidatePhotoKey("plant-1-abc123.png"))
	assert.False(t, ValidatePhotoKey(""))
	assert.False(t, ValidatePhotoKey("../etc/passwd"))
	assert.False(t, ValidatePhotoKey("plant/1.png"))
	assert.False(t, ValidatePhotoKey(strings.Repeat("a", 200)))
}
