package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"

	"gorm.io/gorm/clause"
)

func cachedResponseToDomain(m *model.CachedResponse) *domain.CachedResponse {
	return &domain.CachedResponse{
		QueryHash: m.QueryHash,
		Payload:   []byte(m.Payload),
		CreatedAt: m.CreatedAt.Time(),
		ExpiresAt: m.ExpiresAt.Time(),
	}
}

// CachePut 写入缓存条目，同哈希覆盖
func (d *Dao) CachePut(ctx context.Context, entry *domain.CachedResponse) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m := &model.CachedResponse{
		QueryHash: entry.QueryHash,
		Payload:   string(entry.Payload),
		CreatedAt: timex.Time(entry.CreatedAt),
		ExpiresAt: timex.Time(entry.ExpiresAt),
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "created_at", "expires_at"}),
	}).Create(m).Error
}

// CacheGet 按查询哈希获取缓存条目，过期判断由调用方负责
func (d *Dao) CacheGet(ctx context.Context, queryHash string) (*domain.CachedResponse, error) {
	var m model.CachedResponse
	err := d.db.WithContext(ctx).
		Where("query_hash = ?", queryHash).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return cachedResponseToDomain(&m), nil
}

// CacheDelete 删除缓存条目
func (d *Dao) CacheDelete(ctx context.Context, queryHash string) error {
	return d.db.WithContext(ctx).
		Where("query_hash = ?", queryHash).
		Delete(&model.CachedResponse{}).Error
}

// CachePurgeExpired 清理到期条目，返回删除数
func (d *Dao) CachePurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("expires_at <= ?", timex.Time(now)).
		Delete(&model.CachedResponse{})
	return result.RowsAffected, result.Error
}
