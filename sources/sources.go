// Package sources 封装两个第三方植物数据源（Trefle、Perenual）的客户端，
// 把它们各自的响应结构归一化成统一的 models.Plant。
package sources

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrMissingAPIKey 数据源的 API 密钥未配置。发起任何网络调用之前先检查。
var ErrMissingAPIKey = errors.New("api key not configured")

// 对上游的主动限速，避免消耗完第三方配额
const upstreamRate = rate.Limit(2)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
