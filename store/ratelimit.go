package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RateLimitStore 限流计数的持久化后端。
// 每个键存一组毫秒时间戳，相当于原部署里 blob 存储的 KV 角色。
type RateLimitStore struct {
	DB *sql.DB
}

// NewRateLimitStore 创建一个新的 RateLimitStore 实例
func NewRateLimitStore(db *sql.DB) *RateLimitStore {
	return &RateLimitStore{DB: db}
}

// Fetch 取回某个键的时间戳列表，键不存在返回 nil
func (s *RateLimitStore) Fetch(key string) ([]int64, error) {
	var raw string
	err := s.DB.QueryRow("SELECT requests FROM rate_limits WHERE rate_key = ?", key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var requests []int64
	if err := json.Unmarshal([]byte(raw), &requests); err != nil {
		return nil, fmt.Errorf("corrupt rate limit record for %q: %w", key, err)
	}

	return requests, nil
}

// Save 写回某个键的时间戳列表
func (s *RateLimitStore) Save(key string, requests []int64) error {
	encoded, err := json.Marshal(requests)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(`
		INSERT INTO rate_limits (rate_key, requests) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE requests = VALUES(requests)
	`, key, string(encoded))
	return err
}

// PurgeStale 清掉长时间没有更新的键。
// 原部署里由 blob 存储的 TTL 承担，这里用后台定时任务代替。
func (s *RateLimitStore) PurgeStale(olderThan time.Duration) error {
	_, err := s.DB.Exec(
		"DELETE FROM rate_limits WHERE updated_at < ?",
		time.Now().Add(-olderThan).Format(timeLayout),
	)
	return err
}
