package mysql

import (
	"context"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
)

type OutboxRepository struct {
	DB *gorm.DB
}

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ListPending 按批量大小捞待投递事件
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]model.VoteOutbox, error) {
	var rows []model.VoteOutbox
	err := r.DB.WithContext(ctx).
		Where("status = ?", OutboxPending).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.VoteOutbox{}).
		Where("id = ?", id).
		Update("status", OutboxSent).Error
}

// MarkRetry 投递失败时重试计数+1，超限置为 failed 不再投递
func (r *OutboxRepository) MarkRetry(ctx context.Context, id uint64, maxRetry int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VoteOutbox{}).
			Where("id = ?", id).
			UpdateColumn("retry", gorm.Expr("retry + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&model.VoteOutbox{}).
			Where("id = ? AND retry >= ?", id, maxRetry).
			Update("status", OutboxFailed).Error
	})
}
