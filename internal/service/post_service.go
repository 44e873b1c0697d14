package service

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
)

type PostService struct {
	repo        *mysql.PostRepository
	communities *mysql.CommunityRepository
	users       *mysql.UserRepository
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:        &mysql.PostRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		users:       &mysql.UserRepository{DB: db},
	}
}

// CreatePost 封禁守卫先行，任何校验失败都不落库
func (s *PostService) CreatePost(ctx context.Context, userID, communityID uint64, title, content string) (*model.Post, error) {
	if title == "" {
		return nil, pkg.NewAppError(http.StatusBadRequest, "title required")
	}
	if _, err := s.communities.FindByID(communityID); err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	banned, err := s.communities.IsBanned(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, pkg.ErrBanned
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    userID,
		Title:       title,
		Content:     content,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(postID uint64) (*model.Post, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, notFound(err, pkg.ErrPostNotFound)
	}
	return post, nil
}

// ListByCommunity 社区帖子列表
func (s *PostService) ListByCommunity(communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

// ListByCommunityCursor 游标分页，首页传 lastID=0，返回下一页游标
func (s *PostService) ListByCommunityCursor(communityID, lastID uint64, size int) ([]model.Post, uint64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	list, err := s.repo.ListByCommunityCursor(communityID, lastID, size)
	if err != nil {
		return nil, 0, err
	}
	var nextID uint64
	if len(list) > 0 {
		nextID = list[len(list)-1].ID
	}
	return list, nextID, nil
}

// DeletePost 创建者、管理员或社区版主可删
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return notFound(err, pkg.ErrPostNotFound)
	}
	actor, err := s.users.FindByID(actorID)
	if err != nil {
		return notFound(err, pkg.ErrUserNotFound)
	}
	if actor.ID != post.AuthorID && !actor.IsAdmin() {
		ok, err := s.communities.IsModerator(ctx, post.CommunityID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return pkg.ErrNotModerator
		}
	}
	return s.repo.Delete(postID)
}
