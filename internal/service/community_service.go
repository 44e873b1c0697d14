package service

import (
	"context"
	"regexp"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
)

// 社区名只允许单词字符
var communityNameRe = regexp.MustCompile(`^\w+$`)

const DefaultKarmaMin = 50

type CommunityService struct {
	repo  *mysql.CommunityRepository
	users *mysql.UserRepository
	// 建社区的karma门槛
	karmaMin int64
}

func NewCommunityService(db *gorm.DB, karmaMin int64) *CommunityService {
	if karmaMin <= 0 {
		karmaMin = DefaultKarmaMin
	}
	return &CommunityService{
		repo:     &mysql.CommunityRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		karmaMin: karmaMin,
	}
}

// CommunityView 社区对外视图，含版主和封禁名单
type CommunityView struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatorID   uint64   `json:"creator_id"`
	Subscribers int64    `json:"subscribers"`
	Moderators  []uint64 `json:"moderators"`
	BannedUsers []uint64 `json:"banned_users"`
}

// UserView 订阅接口返回的用户视图
type UserView struct {
	ID            uint64   `json:"id"`
	Username      string   `json:"username"`
	Karma         int64    `json:"karma"`
	Subscriptions []uint64 `json:"subscriptions"`
}

// CreateCommunity karma门槛是投票子系统对外的唯一特权开关，校验先于一切写入
func (s *CommunityService) CreateCommunity(ctx context.Context, userID uint64, name, desc string) (*CommunityView, error) {
	if !communityNameRe.MatchString(name) {
		return nil, pkg.ErrCommunityName
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if user.Karma < s.karmaMin {
		return nil, pkg.ErrInsufficientKarma
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		CreatorID:   userID,
	}
	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}
	return s.view(ctx, community)
}

func (s *CommunityService) view(ctx context.Context, c *model.Community) (*CommunityView, error) {
	mods, err := s.repo.ListModerators(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	bans, err := s.repo.ListBannedUsers(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &CommunityView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatorID:   c.CreatorID,
		Subscribers: c.Subscribers,
		Moderators:  mods,
		BannedUsers: bans,
	}, nil
}

// assertModerator 创建者、管理员、版主任一满足即通过
func (s *CommunityService) assertModerator(ctx context.Context, actor *model.User, community *model.Community) error {
	if actor.ID == community.CreatorID || actor.IsAdmin() {
		return nil
	}
	ok, err := s.repo.IsModerator(ctx, community.ID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return pkg.ErrNotModerator
	}
	return nil
}

// Ban 版主封禁用户。创建者不可被封禁。
func (s *CommunityService) Ban(ctx context.Context, actorID, communityID, targetID uint64) (*CommunityView, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	actor, err := s.users.FindByID(actorID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if err := s.assertModerator(ctx, actor, community); err != nil {
		return nil, err
	}
	if targetID == community.CreatorID {
		return nil, pkg.ErrBanCreator
	}
	if _, err := s.users.FindByID(targetID); err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if err := s.repo.Ban(ctx, communityID, targetID); err != nil {
		return nil, err
	}
	return s.view(ctx, community)
}

func (s *CommunityService) Unban(ctx context.Context, actorID, communityID, targetID uint64) (*CommunityView, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	actor, err := s.users.FindByID(actorID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if err := s.assertModerator(ctx, actor, community); err != nil {
		return nil, err
	}
	if err := s.repo.Unban(ctx, communityID, targetID); err != nil {
		return nil, err
	}
	return s.view(ctx, community)
}

// AssertNotBanned 封禁用户不能在社区内创建内容
func (s *CommunityService) AssertNotBanned(ctx context.Context, userID, communityID uint64) error {
	banned, err := s.repo.IsBanned(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if banned {
		return pkg.ErrBanned
	}
	return nil
}

func (s *CommunityService) Subscribe(ctx context.Context, userID, communityID uint64) (*UserView, error) {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if err := s.repo.Subscribe(ctx, communityID, userID); err != nil {
		return nil, err
	}
	return s.userView(ctx, user)
}

func (s *CommunityService) Unsubscribe(ctx context.Context, userID, communityID uint64) (*UserView, error) {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if err := s.repo.Unsubscribe(ctx, communityID, userID); err != nil {
		return nil, err
	}
	return s.userView(ctx, user)
}

func (s *CommunityService) userView(ctx context.Context, user *model.User) (*UserView, error) {
	subs, err := s.repo.ListSubscriptions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserView{
		ID:            user.ID,
		Username:      user.Username,
		Karma:         user.Karma,
		Subscriptions: subs,
	}, nil
}

func (s *CommunityService) Get(ctx context.Context, id uint64) (*CommunityView, error) {
	community, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, pkg.ErrCommunityNotFound)
	}
	return s.view(ctx, community)
}

func (s *CommunityService) ListCommunities(page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(offset, size)
}
