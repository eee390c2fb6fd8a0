// Package sync 实现出站变更账本与同步编排
package sync

import (
	"context"

	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"
	xerrors "github.com/haierkeys/fast-note-offline-client/pkg/errors"
	"github.com/haierkeys/fast-note-offline-client/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// DefaultRetryCap 默认的单条目失败上限
const DefaultRetryCap = 3

// Queue 出站变更账本
// 条目在本地写入时追加，消费由编排器独占驱动
type Queue struct {
	repo   domain.SyncQueueRepository
	logger *zap.Logger
}

// NewQueue 创建账本访问器
func NewQueue(repo domain.SyncQueueRepository, lg *zap.Logger) *Queue {
	return &Queue{repo: repo, logger: lg}
}

// Enqueue 为一次本地变更追加账本条目
// payload 是该记录此刻的字段快照
func (q *Queue) Enqueue(ctx context.Context, table, recordID string, op domain.Operation, permanent bool, payload any) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return xerrors.NewAppError(code.ErrorValidation, err)
	}
	entry, err := q.repo.Append(ctx, &domain.SyncQueueEntry{
		TableName: table,
		RecordID:  recordID,
		Operation: op,
		Permanent: permanent,
		Payload:   raw,
	})
	if err != nil {
		return err
	}
	q.logger.Debug("queued outbound change",
		zap.Int64(logger.FieldEntryID, entry.ID),
		zap.String(logger.FieldTable, table),
		zap.String(logger.FieldRecordID, recordID),
		zap.String(logger.FieldOperation, string(op)))
	return nil
}

// Snapshot 返回调用时刻的条目快照，按创建顺序
func (q *Queue) Snapshot(ctx context.Context) ([]*domain.SyncQueueEntry, error) {
	return q.repo.ListAll(ctx)
}

// MarkDone 条目成功应用到远端后移除
func (q *Queue) MarkDone(ctx context.Context, entry *domain.SyncQueueEntry) error {
	return q.repo.Delete(ctx, entry.ID)
}

// MarkFailed 失败后递增重试计数
// 达到 retryCap 时无条件移除条目并返回 dropped=true
func (q *Queue) MarkFailed(ctx context.Context, entry *domain.SyncQueueEntry, retryCap int) (dropped bool, retries int, err error) {
	if retryCap <= 0 {
		retryCap = DefaultRetryCap
	}
	retries, err = q.repo.IncrRetries(ctx, entry.ID)
	if err != nil {
		return false, 0, err
	}
	if retries < retryCap {
		return false, retries, nil
	}
	if err := q.repo.Delete(ctx, entry.ID); err != nil {
		return false, retries, err
	}
	q.logger.Warn("outbound change dropped after retry cap",
		zap.Int64(logger.FieldEntryID, entry.ID),
		zap.String(logger.FieldTable, entry.TableName),
		zap.String(logger.FieldRecordID, entry.RecordID),
		zap.Int(logger.FieldRetries, retries))
	return true, retries, nil
}

// Pending 当前条目总数
func (q *Queue) Pending(ctx context.Context) (int64, error) {
	return q.repo.Count(ctx)
}

// HasPendingFor 指定记录是否还有其他未消费条目，excludeID 不计入
func (q *Queue) HasPendingFor(ctx context.Context, table, recordID string, excludeID int64) (bool, error) {
	return q.repo.HasPendingFor(ctx, table, recordID, excludeID)
}
