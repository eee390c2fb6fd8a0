package domain

import "time"

// Preference 用户偏好，按 (uid, key) 唯一，upsert 语义
type Preference struct {
	UID       int64
	Key       string
	Value     string
	UpdatedAt time.Time
}

// CachedResponse 时间盒响应缓存
// 到期后读取返回空并惰性清除，维护任务定期清扫
type CachedResponse struct {
	QueryHash string
	Payload   []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}
