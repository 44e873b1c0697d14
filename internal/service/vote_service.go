package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/repository/mysql"
	rds "Karma_Forum/internal/repository/redis"
)

// VoteService 投票状态迁移引擎的门面：前置校验、事务提交、缓存维护
type VoteService struct {
	votes     *mysql.VoteRepository
	posts     *mysql.PostRepository
	comments  *mysql.CommentRepository
	users     *mysql.UserRepository
	voteCache *rds.VoteCacheRepository
	lock      *rds.DistLock
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{
		votes:     &mysql.VoteRepository{DB: db},
		posts:     &mysql.PostRepository{DB: db},
		comments:  &mysql.CommentRepository{DB: db},
		users:     &mysql.UserRepository{DB: db},
		voteCache: rds.NewVoteCacheRepository(),
		lock:      &rds.DistLock{RDB: rds.Client},
	}
}

// Document 投票接口对外返回的文档视图，帖子和评论统一形状
type Document struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"kind"`
	CommunityID uint64 `json:"community_id"`
	AuthorID    uint64 `json:"author_id"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content"`
	UpVotes     int64  `json:"upvotes"`
	DownVotes   int64  `json:"downvotes"`
	Score       int64  `json:"score"`
}

func notFound(err error, sentinel *pkg.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func (s *VoteService) loadTarget(targetID uint64, kind model.TargetKind) (model.Target, error) {
	if kind == model.KindComment {
		c, err := s.comments.FindByID(targetID)
		if err != nil {
			return model.Target{}, notFound(err, pkg.ErrCommentNotFound)
		}
		return c.Target(), nil
	}
	p, err := s.posts.FindByID(targetID)
	if err != nil {
		return model.Target{}, notFound(err, pkg.ErrPostNotFound)
	}
	return p.Target(), nil
}

// Document 重新加载目标并转成统一视图
func (s *VoteService) Document(targetID uint64, kind model.TargetKind) (*Document, error) {
	if kind == model.KindComment {
		c, err := s.comments.FindByID(targetID)
		if err != nil {
			return nil, notFound(err, pkg.ErrCommentNotFound)
		}
		return &Document{
			ID:          c.ID,
			Kind:        kind.String(),
			CommunityID: c.CommunityID,
			AuthorID:    c.AuthorID,
			Content:     c.Content,
			UpVotes:     c.UpVotes,
			DownVotes:   c.DownVotes,
			Score:       c.Score(),
		}, nil
	}
	p, err := s.posts.FindByID(targetID)
	if err != nil {
		return nil, notFound(err, pkg.ErrPostNotFound)
	}
	return &Document{
		ID:          p.ID,
		Kind:        kind.String(),
		CommunityID: p.CommunityID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Content:     p.Content,
		UpVotes:     p.UpVotes,
		DownVotes:   p.DownVotes,
		Score:       p.Score(),
	}, nil
}

// Apply 执行一次投票意图，返回更新后的文档。
// 守卫顺序：目标存在 -> 投票人存在 -> 作者存在（karma要落在作者身上），
// 任一失败都在写入发生前短路。
func (s *VoteService) Apply(ctx context.Context, intent model.VoteIntent, userID, targetID uint64, kind model.TargetKind) (*Document, error) {
	target, err := s.loadTarget(targetID, kind)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(userID); err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}
	if _, err := s.users.FindByID(target.AuthorID); err != nil {
		return nil, notFound(err, pkg.ErrUserNotFound)
	}

	prev, err := s.votes.Apply(ctx, userID, target, intent)
	if err != nil {
		return nil, err
	}

	s.refreshCache(ctx, userID, target, intent, prev)

	return s.Document(targetID, kind)
}

// refreshCache 写库成功后尽力更新缓存；计数操作受锁保护，拿不到锁或出错就删计数Key，
// 交给读侧惰性重建
func (s *VoteService) refreshCache(ctx context.Context, userID uint64, t model.Target, intent model.VoteIntent, prev model.VoteState) {
	token := fmt.Sprintf("%d-%d-%d", userID, t.ID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, t.Kind, t.ID, token)
	if !got {
		_ = s.voteCache.DeleteCounts(ctx, t.ID, t.Kind)
		return
	}
	defer func() { _ = s.lock.Release(ctx, t.Kind, t.ID, token) }()

	var err error
	switch intent {
	case model.IntentUpvote:
		if prev == model.StateDownvoted {
			err = s.voteCache.RemoveVote(ctx, userID, t.ID, t.Kind, model.VoteDown)
		}
		if err == nil {
			err = s.voteCache.AddVote(ctx, userID, t.ID, t.Kind, model.VoteUp)
		}
	case model.IntentDownvote:
		if prev == model.StateUpvoted {
			err = s.voteCache.RemoveVote(ctx, userID, t.ID, t.Kind, model.VoteUp)
		}
		if err == nil {
			err = s.voteCache.AddVote(ctx, userID, t.ID, t.Kind, model.VoteDown)
		}
	case model.IntentRemoveUpvote:
		err = s.voteCache.RemoveVote(ctx, userID, t.ID, t.Kind, model.VoteUp)
	case model.IntentRemoveDownvote:
		err = s.voteCache.RemoveVote(ctx, userID, t.ID, t.Kind, model.VoteDown)
	}
	if err != nil {
		_ = s.voteCache.DeleteCounts(ctx, t.ID, t.Kind)
	}
}

// State 当前用户对目标的投票状态，缓存命中优先，miss回源并惰性回填
func (s *VoteService) State(ctx context.Context, userID, targetID uint64, kind model.TargetKind) (model.VoteState, error) {
	if _, err := s.loadTarget(targetID, kind); err != nil {
		return model.StateNone, err
	}
	if st, ok, err := s.voteCache.StateCached(ctx, userID, targetID, kind); err == nil && ok {
		return st, nil
	}
	st, err := s.votes.State(ctx, userID, targetID, kind)
	if err == nil {
		s.voteCache.WarmState(ctx, userID, targetID, kind, st)
	}
	return st, err
}

// Counts 读目标双计数。缓存miss时用分布式锁做单兵重建，避免全体打DB
func (s *VoteService) Counts(ctx context.Context, targetID uint64, kind model.TargetKind) (int64, int64, error) {
	if _, err := s.loadTarget(targetID, kind); err != nil {
		return 0, 0, err
	}
	if up, down, ok, err := s.voteCache.GetCountsCached(ctx, targetID, kind); err == nil && ok {
		return up, down, nil
	}

	token := fmt.Sprintf("%d-%d-%d", targetID, kind, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, kind, targetID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, kind, targetID, token) }()

		// 双重检查
		if up, down, ok, err := s.voteCache.GetCountsCached(ctx, targetID, kind); err == nil && ok {
			return up, down, nil
		}
		up, down, err := s.votes.Counts(ctx, targetID, kind)
		if err != nil {
			return 0, 0, err
		}
		_ = s.voteCache.SetCounts(ctx, targetID, kind, up, down)
		return up, down, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存
	time.Sleep(50 * time.Millisecond)
	if up, down, ok, err := s.voteCache.GetCountsCached(ctx, targetID, kind); err == nil && ok {
		return up, down, nil
	}
	return s.votes.Counts(ctx, targetID, kind)
}
