package utils

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid"
)

// 照片键里只用小写字母和数字，避免 URL 里出现需要转义的字符
const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const keyLength = 16

// GeneratePhotoKey 为上传的照片生成唯一的存储键。
// 形如 plant-{plantID}-{随机串}.{扩展名}，扩展名取自原始文件名，缺省 jpg。
func GeneratePhotoKey(plantID int, filename string) (string, error) {
	ext := "jpg"
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		ext = strings.ToLower(filename[idx+1:])
	}

	id, err := gonanoid.Generate(keyAlphabet, keyLength)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("plant-%d-%s.%s", plantID, id, ext), nil
}

// ValidatePhotoKey 校验照片键格式，挡掉路径穿越类的输入
func ValidatePhotoKey(key string) bool {
	if key == "" || len(key) > 128 {
		return false
	}

	for _, char := range key {
		ok := char == '-' || char == '.' ||
			(char >= '0' && char <= '9') ||
			(char >= 'a' && char <= 'z')
		if !ok {
			return false
		}
	}

	return !strings.Contains(key, "..")
}
