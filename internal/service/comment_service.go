package service

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
)

type CommentService struct {
	repo        *mysql.CommentRepository
	posts       *mysql.PostRepository
	communities *mysql.CommunityRepository
	users       *mysql.UserRepository
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		repo:        &mysql.CommentRepository{DB: db},
		posts:       &mysql.PostRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		users:       &mysql.UserRepository{DB: db},
	}
}

// CreateComment 评论继承帖子所在社区的封禁守卫
func (s *CommentService) CreateComment(ctx context.Context, userID, postID uint64, content string) (*model.Comment, error) {
	if content == "" {
		return nil, pkg.NewAppError(http.StatusBadRequest, "content required")
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, notFound(err, pkg.ErrPostNotFound)
	}
	banned, err := s.communities.IsBanned(ctx, post.CommunityID, userID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, pkg.ErrBanned
	}

	comment := &model.Comment{
		PostID:      postID,
		AuthorID:    userID,
		Content:     content,
		CommunityID: post.CommunityID,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByPost(postID uint64, page, size int) ([]model.Comment, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size
	return s.repo.ListByPost(postID, offset, size)
}

// DeleteComment 鉴权同删帖：作者、管理员或社区版主
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint64) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		return notFound(err, pkg.ErrCommentNotFound)
	}
	actor, err := s.users.FindByID(actorID)
	if err != nil {
		return notFound(err, pkg.ErrUserNotFound)
	}
	if actor.ID != comment.AuthorID && !actor.IsAdmin() {
		ok, err := s.communities.IsModerator(ctx, comment.CommunityID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return pkg.ErrNotModerator
		}
	}
	return s.repo.Delete(commentID)
}
