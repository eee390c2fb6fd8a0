package service

import (
	"context"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
)

// PreferenceSetParams 写入偏好入参
type PreferenceSetParams struct {
	Key   string `json:"key" form:"key" binding:"required"`
	Value string `json:"value" form:"value"`
}

// PreferenceSet 写入用户偏好，同键覆盖
// 偏好只存本地，不参与远端对账
func (s *Service) PreferenceSet(ctx context.Context, params *PreferenceSetParams) error {
	return s.d.PreferenceUpsert(ctx, &domain.Preference{
		UID:   s.UID(),
		Key:   params.Key,
		Value: params.Value,
	})
}

// PreferenceGet 获取偏好
func (s *Service) PreferenceGet(ctx context.Context, key string) (*domain.Preference, error) {
	return s.d.PreferenceGet(ctx, s.UID(), key)
}

// PreferenceList 获取全部偏好
func (s *Service) PreferenceList(ctx context.Context) ([]*domain.Preference, error) {
	return s.d.PreferenceList(ctx, s.UID())
}
