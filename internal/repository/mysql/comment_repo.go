package mysql

import (
	"Karma_Forum/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, "id = ? AND status = 0", id).Error
	return &comment, err
}

func (r *CommentRepository) ListByPost(postID uint64, offset, limit int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.
		Where("post_id = ? AND status = 0", postID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) Delete(id uint64) error {
	return r.DB.Model(&model.Comment{}).
		Where("id = ? AND status = 0", id).
		Update("status", 1).Error
}
