package service

import (
	"context"
	"fmt"
	"os"

	"github.com/haierkeys/fast-note-offline-client/internal/dao"
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/fileurl"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// SnapshotExport 导出当前用户数据为 JSON 文件
func (s *Service) SnapshotExport(ctx context.Context, path string) (*domain.Snapshot, error) {
	snapshot, err := s.d.SnapshotExport(ctx, s.UID())
	if err != nil {
		return nil, err
	}

	raw, err := sonic.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorSnapshotMalformed, err)
	}
	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot exported",
		zap.String("path", path),
		zap.Int("notes", len(snapshot.Notes)),
		zap.Int("labels", len(snapshot.Labels)))
	return snapshot, nil
}

// SnapshotImport 从 JSON 文件导入数据
// 版本不符或格式损坏时拒绝，单个事务内完成，不存在部分导入
func (s *Service) SnapshotImport(ctx context.Context, path string) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.NewAppError(code.ErrorSnapshotMalformed, err)
	}

	var snapshot domain.Snapshot
	if err := sonic.Unmarshal(raw, &snapshot); err != nil {
		return nil, xerrors.NewAppError(code.ErrorSnapshotMalformed, err)
	}
	if snapshot.Version != dao.SnapshotVersion {
		return nil, xerrors.NewAppError(code.ErrorSnapshotVersion,
			fmt.Errorf("snapshot version %d, supported %d", snapshot.Version, dao.SnapshotVersion))
	}

	if err := s.d.SnapshotImport(ctx, s.UID(), &snapshot); err != nil {
		return nil, err
	}
	s.logger.Info("snapshot imported",
		zap.String("path", path),
		zap.Int("notes", len(snapshot.Notes)),
		zap.Int("labels", len(snapshot.Labels)))
	return &snapshot, nil
}
