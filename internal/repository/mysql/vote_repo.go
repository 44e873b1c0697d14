package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
)

type VoteRepository struct {
	DB *gorm.DB
}

// lockForUpdate SQLite（测试用）不支持 FOR UPDATE，其写入本身就是串行的，跳过加锁
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// State 投票状态解析：对 (user, target, kind) 做集合成员判定。
// 两个方向同时命中视为数据损坏，直接上抛，不做静默修复。
func (r *VoteRepository) State(ctx context.Context, userID, targetID uint64, kind model.TargetKind) (model.VoteState, error) {
	return r.stateTx(r.DB.WithContext(ctx), userID, targetID, kind, false)
}

func (r *VoteRepository) stateTx(tx *gorm.DB, userID, targetID uint64, kind model.TargetKind, lock bool) (model.VoteState, error) {
	q := tx
	if lock {
		q = lockForUpdate(tx)
	}
	var votes []model.Vote
	if err := q.Where("user_id = ? AND target_id = ? AND kind = ?", userID, targetID, kind).
		Find(&votes).Error; err != nil {
		return model.StateNone, err
	}
	switch len(votes) {
	case 0:
		return model.StateNone, nil
	case 1:
		if votes[0].Value == model.VoteUp {
			return model.StateUpvoted, nil
		}
		return model.StateDownvoted, nil
	}
	return model.StateNone, pkg.ErrVoteCorrupted
}

// Apply 在单个事务里完成一次投票状态迁移：投票行、目标双计数、作者karma、outbox同步落库。
// 换票 = 先撤销反向再落新票，两次套用同一对原语（toggleOff/toggleOn）。
// 状态行加锁读，并发同向投票会串行化，后到的一方收到 ErrAlreadyVoted。
// 返回迁移前的状态，调用方维护缓存时需要。
func (r *VoteRepository) Apply(ctx context.Context, userID uint64, t model.Target, intent model.VoteIntent) (model.VoteState, error) {
	var prev model.VoteState
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := r.stateTx(tx, userID, t.ID, t.Kind, true)
		if err != nil {
			return err
		}
		prev = state

		switch intent {
		case model.IntentUpvote:
			if state == model.StateUpvoted {
				return pkg.ErrAlreadyVoted
			}
			if state == model.StateDownvoted {
				if err := r.toggleOff(tx, userID, t, model.VoteDown); err != nil {
					return err
				}
			}
			if err := r.toggleOn(tx, userID, t, model.VoteUp); err != nil {
				return err
			}
		case model.IntentDownvote:
			if state == model.StateDownvoted {
				return pkg.ErrAlreadyVoted
			}
			if state == model.StateUpvoted {
				if err := r.toggleOff(tx, userID, t, model.VoteUp); err != nil {
					return err
				}
			}
			if err := r.toggleOn(tx, userID, t, model.VoteDown); err != nil {
				return err
			}
		case model.IntentRemoveUpvote:
			if state != model.StateUpvoted {
				return pkg.ErrNotVoted
			}
			if err := r.toggleOff(tx, userID, t, model.VoteUp); err != nil {
				return err
			}
		case model.IntentRemoveDownvote:
			if state != model.StateDownvoted {
				return pkg.ErrNotVoted
			}
			if err := r.toggleOff(tx, userID, t, model.VoteDown); err != nil {
				return err
			}
		default:
			return errors.New("unknown vote intent")
		}

		return r.insertOutbox(tx, userID, t, intent)
	})
	return prev, err
}

// toggleOn 落一票：插集合行、对应计数+1、作者karma随方向增减
func (r *VoteRepository) toggleOn(tx *gorm.DB, userID uint64, t model.Target, value int8) error {
	if err := tx.Create(&model.Vote{UserID: userID, TargetID: t.ID, Kind: t.Kind, Value: value}).Error; err != nil {
		return err
	}
	if err := r.bumpCounter(tx, t, value, +1); err != nil {
		return err
	}
	return r.bumpKarma(tx, t.AuthorID, int64(value))
}

// toggleOff 撤一票：删集合行、对应计数-1、karma回补
func (r *VoteRepository) toggleOff(tx *gorm.DB, userID uint64, t model.Target, value int8) error {
	res := tx.Where("user_id = ? AND target_id = ? AND kind = ? AND value = ?", userID, t.ID, t.Kind, value).
		Delete(&model.Vote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotVoted
	}
	if err := r.bumpCounter(tx, t, value, -1); err != nil {
		return err
	}
	return r.bumpKarma(tx, t.AuthorID, -int64(value))
}

func (r *VoteRepository) bumpCounter(tx *gorm.DB, t model.Target, value int8, delta int) error {
	col := "up_votes"
	if value == model.VoteDown {
		col = "down_votes"
	}
	var m any = &model.Post{}
	if t.Kind == model.KindComment {
		m = &model.Comment{}
	}
	if delta > 0 {
		return tx.Model(m).Where("id = ?", t.ID).
			UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error
	}
	// 计数防负，误差由对账兜底
	return tx.Model(m).Where("id = ?", t.ID).
		UpdateColumn(col, gorm.Expr("CASE WHEN "+col+" > 0 THEN "+col+" - 1 ELSE 0 END")).Error
}

func (r *VoteRepository) bumpKarma(tx *gorm.DB, authorID uint64, delta int64) error {
	return tx.Model(&model.User{}).Where("id = ?", authorID).
		UpdateColumn("karma", gorm.Expr("karma + ?", delta)).Error
}

// Counts 从投票表实数，缓存重建和对账回源用
func (r *VoteRepository) Counts(ctx context.Context, targetID uint64, kind model.TargetKind) (int64, int64, error) {
	var up, down int64
	err := r.DB.WithContext(ctx).Model(&model.Vote{}).
		Where("target_id = ? AND kind = ? AND value = ?", targetID, kind, model.VoteUp).
		Count(&up).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.DB.WithContext(ctx).Model(&model.Vote{}).
		Where("target_id = ? AND kind = ? AND value = ?", targetID, kind, model.VoteDown).
		Count(&down).Error
	return up, down, err
}

func (r *VoteRepository) insertOutbox(tx *gorm.DB, userID uint64, t model.Target, intent model.VoteIntent) error {
	payload, err := json.Marshal(map[string]any{
		"event":     intent.String(),
		"user_id":   userID,
		"target_id": t.ID,
		"kind":      t.Kind.String(),
		"author_id": t.AuthorID,
		"ts":        time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	return tx.Create(&model.VoteOutbox{
		EventType: intent.String(),
		UserID:    userID,
		TargetID:  t.ID,
		Kind:      t.Kind,
		Payload:   string(payload),
	}).Error
}
