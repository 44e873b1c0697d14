package mysql

import (
	"context"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
)

// ReconcilerRepository 从投票表实数，修正计数与karma的漂移。
// 写路径已在事务里保持一致，这里兜底历史数据和异常中断留下的误差。
type ReconcilerRepository struct {
	DB *gorm.DB
}

// ReconcilePosts 对 id > fromID 的一批帖子重算双计数，返回本批最后一个id
func (r *ReconcilerRepository) ReconcilePosts(ctx context.Context, fromID uint64, batch int) (uint64, error) {
	return r.reconcileTargets(ctx, "posts", model.KindPost, fromID, batch)
}

func (r *ReconcilerRepository) ReconcileComments(ctx context.Context, fromID uint64, batch int) (uint64, error) {
	return r.reconcileTargets(ctx, "comments", model.KindComment, fromID, batch)
}

func (r *ReconcilerRepository) reconcileTargets(ctx context.Context, table string, kind model.TargetKind, fromID uint64, batch int) (uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Table(table).
		Where("id > ?", fromID).
		Order("id").
		Limit(batch).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return fromID, err
	}

	sql := `UPDATE ` + table + ` SET
  up_votes   = (SELECT COUNT(*) FROM votes WHERE target_id = ? AND kind = ? AND value = 1),
  down_votes = (SELECT COUNT(*) FROM votes WHERE target_id = ? AND kind = ? AND value = -1)
WHERE id = ?`
	for _, id := range ids {
		if err := r.DB.WithContext(ctx).Exec(sql, id, kind, id, kind, id).Error; err != nil {
			return fromID, err
		}
	}
	return ids[len(ids)-1], nil
}

// ReconcileKarma 对一批用户重算karma：其所有帖子和评论上的票值之和
func (r *ReconcilerRepository) ReconcileKarma(ctx context.Context, fromID uint64, batch int) (uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id > ?", fromID).
		Order("id").
		Limit(batch).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return fromID, err
	}

	sql := `UPDATE users SET karma =
  COALESCE((SELECT SUM(v.value) FROM votes v JOIN posts p ON p.id = v.target_id AND v.kind = ? WHERE p.author_id = users.id), 0)
+ COALESCE((SELECT SUM(v.value) FROM votes v JOIN comments c ON c.id = v.target_id AND v.kind = ? WHERE c.author_id = users.id), 0)
WHERE users.id = ?`
	for _, id := range ids {
		if err := r.DB.WithContext(ctx).Exec(sql, model.KindPost, model.KindComment, id).Error; err != nil {
			return fromID, err
		}
	}
	return ids[len(ids)-1], nil
}
