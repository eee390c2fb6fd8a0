package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/model"
	"github.com/haierkeys/fast-note-offline-client/pkg/timex"

	"gorm.io/gorm/clause"
)

func preferenceToDomain(m *model.Preference) *domain.Preference {
	return &domain.Preference{
		UID:       m.UID,
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

// PreferenceUpsert 按 (uid, key) 覆盖写入
func (d *Dao) PreferenceUpsert(ctx context.Context, pref *domain.Preference) error {
	pref.UpdatedAt = time.Now()
	m := &model.Preference{
		UID:       pref.UID,
		Key:       pref.Key,
		Value:     pref.Value,
		UpdatedAt: timex.Time(pref.UpdatedAt),
	}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
}

// PreferenceGet 获取偏好，不存在返回 NotFound
func (d *Dao) PreferenceGet(ctx context.Context, uid int64, key string) (*domain.Preference, error) {
	var m model.Preference
	err := d.db.WithContext(ctx).
		Where("uid = ? AND key = ?", uid, key).
		First(&m).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return preferenceToDomain(&m), nil
}

// PreferenceList 获取用户全部偏好
func (d *Dao) PreferenceList(ctx context.Context, uid int64) ([]*domain.Preference, error) {
	var rows []*model.Preference
	err := d.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	prefs := make([]*domain.Preference, 0, len(rows))
	for _, row := range rows {
		prefs = append(prefs, preferenceToDomain(row))
	}
	return prefs, nil
}
