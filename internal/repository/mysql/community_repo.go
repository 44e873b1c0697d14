package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区和创建者版主行在一个事务里写入，恒有 creator ∈ moderators
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&model.CommunityModerator{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
		}).Error
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) IsModerator(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityModerator{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityRepository) IsBanned(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityBan{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// Ban 加锁读封禁行，重复封禁返回 ErrAlreadyBanned
func (r *CommunityRepository) Ban(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ban model.CommunityBan
		err := lockForUpdate(tx).
			Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&ban).Error
		if err == nil {
			return pkg.ErrAlreadyBanned
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&model.CommunityBan{CommunityID: communityID, UserID: userID}).Error
	})
}

func (r *CommunityRepository) Unban(ctx context.Context, communityID, userID uint64) error {
	res := r.DB.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.CommunityBan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotBanned
	}
	return nil
}

// Subscribe 订阅行和订阅计数一个事务维护
func (r *CommunityRepository) Subscribe(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub model.Subscription
		err := lockForUpdate(tx).
			Where("community_id = ? AND user_id = ?", communityID, userID).
			First(&sub).Error
		if err == nil {
			return pkg.ErrAlreadySubscribed
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&model.Subscription{CommunityID: communityID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("subscribers", gorm.Expr("subscribers + 1")).Error
	})
}

func (r *CommunityRepository) Unsubscribe(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return pkg.ErrNotSubscribed
		}
		// 计数防负
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("subscribers", gorm.Expr("CASE WHEN subscribers > 0 THEN subscribers - 1 ELSE 0 END")).Error
	})
}

// ListBannedUsers 社区封禁的用户ID列表
func (r *CommunityRepository) ListBannedUsers(ctx context.Context, communityID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.CommunityBan{}).
		Where("community_id = ?", communityID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListModerators 社区版主的用户ID列表
func (r *CommunityRepository) ListModerators(ctx context.Context, communityID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.CommunityModerator{}).
		Where("community_id = ?", communityID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListSubscriptions 用户订阅的社区ID列表
func (r *CommunityRepository) ListSubscriptions(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Order("community_id").
		Pluck("community_id", &ids).Error
	return ids, err
}
