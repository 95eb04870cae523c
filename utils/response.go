package utils

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SafeError 返回对外安全的错误响应。
// 真实错误只记录在服务端日志里，客户端永远只看到 {"error": publicMessage}，
// 避免泄露堆栈、上游返回体或 API 密钥。
func SafeError(c *gin.Context, publicMessage string, status int, internal error) {
	if internal != nil {
		slog.Error("api error", "message", publicMessage, "status", status, "err", internal)
	}

	c.JSON(status, gin.H{"error": publicMessage})
}

// BadRequest 返回请求错误响应
func BadRequest(c *gin.Context, message string) {
	SafeError(c, message, http.StatusBadRequest, nil)
}

// Unauthorized 返回未授权响应
func Unauthorized(c *gin.Context) {
	SafeError(c, "Unauthorized", http.StatusUnauthorized, nil)
}

// NotFound 返回资源未找到响应
func NotFound(c *gin.Context, resource string) {
	SafeError(c, resource+" not found", http.StatusNotFound, nil)
}

// MethodNotAllowed 返回方法不允许响应
func MethodNotAllowed(c *gin.Context) {
	SafeError(c, "Method not allowed", http.StatusMethodNotAllowed, nil)
}

// TooManyRequests 返回限流响应，不带 retry-after 细节
func TooManyRequests(c *gin.Context) {
	SafeError(c, "Too many requests. Please try again later.", http.StatusTooManyRequests, nil)
}

// ServerError 返回服务器内部错误响应，internal 只进日志
func ServerError(c *gin.Context, internal error) {
	SafeError(c, "An error occurred", http.StatusInternalServerError, internal)
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 返回创建成功响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
