package mysql

import (
	"Karma_Forum/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, "id = ? AND status = 0", id).Error
	return &post, err
}

// ListByCommunity 基础分页查询
func (r *PostRepository) ListByCommunity(communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.
		Where("community_id = ? AND status = 0", communityID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

// ListByCommunityCursor 游标分页，首页传 lastID=0
func (r *PostRepository) ListByCommunityCursor(communityID, lastID uint64, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.Where("community_id = ? AND status = 0", communityID)
	if lastID > 0 {
		q = q.Where("id < ?", lastID)
	}
	err := q.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// Delete 软删除，status 置 1
func (r *PostRepository) Delete(id uint64) error {
	return r.DB.Model(&model.Post{}).
		Where("id = ? AND status = 0", id).
		Update("status", 1).Error
}
