package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"Karma_Forum/internal/model"
)

const (
	VoteSetTTL       = 24 * time.Hour
	VoteCntTTL       = 24 * time.Hour
	LockTTL          = 300 * time.Millisecond
	VoteSetKeyPrefix = "vote:set" // 某对象某方向已投票的用户ID集合
	VoteCntKeyPrefix = "vote:cnt" // 某对象某方向的票数
	LockKeyPrefix    = "lock:vote"
)

// VoteCacheRepository 投票计数的旁路缓存。写库成功后尽力更新，失败删Key交给读侧重建。
type VoteCacheRepository struct {
	voteSetTTL time.Duration
	voteCntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewVoteCacheRepository() *VoteCacheRepository {
	return &VoteCacheRepository{
		voteSetTTL: VoteSetTTL,
		voteCntTTL: VoteCntTTL,
	}
}

func dir(value int8) string {
	if value == model.VoteDown {
		return "down"
	}
	return "up"
}

func (r *VoteCacheRepository) setKey(kind model.TargetKind, targetID uint64, value int8) string {
	return fmt.Sprintf("%s:%s:%s:%d", VoteSetKeyPrefix, kind, dir(value), targetID)
}

func (r *VoteCacheRepository) cntKey(kind model.TargetKind, targetID uint64, value int8) string {
	return fmt.Sprintf("%s:%s:%s:%d", VoteCntKeyPrefix, kind, dir(value), targetID)
}

// AddVote 写路径：成功写MySQL后调用
func (r *VoteCacheRepository) AddVote(ctx context.Context, userID, targetID uint64, kind model.TargetKind, value int8) error {
	k := r.setKey(kind, targetID, value)
	if err := Client.SAdd(ctx, k, userID).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, k, r.voteSetTTL).Err()

	ck := r.cntKey(kind, targetID, value)
	if err := Client.Incr(ctx, ck).Err(); err != nil {
		return err
	}
	_ = Client.Expire(ctx, ck, r.voteCntTTL).Err()
	return nil
}

func (r *VoteCacheRepository) RemoveVote(ctx context.Context, userID, targetID uint64, kind model.TargetKind, value int8) error {
	k := r.setKey(kind, targetID, value)
	if err := Client.SRem(ctx, k, userID).Err(); err != nil {
		return err
	}
	ck := r.cntKey(kind, targetID, value)
	// 计数防负
	return Client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, ck).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if val <= 0 {
			// 不存在或已经为0，交给对账兜底
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Decr(ctx, ck)
			return nil
		})
		return err
	}, ck)
}

// StateCached 双方向集合都存在时才可信，否则回源
func (r *VoteCacheRepository) StateCached(ctx context.Context, userID, targetID uint64, kind model.TargetKind) (model.VoteState, bool, error) {
	upKey := r.setKey(kind, targetID, model.VoteUp)
	downKey := r.setKey(kind, targetID, model.VoteDown)
	exists, err := Client.Exists(ctx, upKey, downKey).Result()
	if err != nil {
		return model.StateNone, false, err
	}
	if exists != 2 {
		return model.StateNone, false, nil
	}
	up, err := Client.SIsMember(ctx, upKey, userID).Result()
	if err != nil {
		return model.StateNone, false, err
	}
	if up {
		return model.StateUpvoted, true, nil
	}
	down, err := Client.SIsMember(ctx, downKey, userID).Result()
	if err != nil {
		return model.StateNone, false, err
	}
	if down {
		return model.StateDownvoted, true, nil
	}
	return model.StateNone, true, nil
}

// GetCountsCached 两个计数Key都命中才算命中
func (r *VoteCacheRepository) GetCountsCached(ctx context.Context, targetID uint64, kind model.TargetKind) (int64, int64, bool, error) {
	up, err := Client.Get(ctx, r.cntKey(kind, targetID, model.VoteUp)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	down, err := Client.Get(ctx, r.cntKey(kind, targetID, model.VoteDown)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}
	return up, down, true, nil
}

// SetCounts 回源后回填
func (r *VoteCacheRepository) SetCounts(ctx context.Context, targetID uint64, kind model.TargetKind, up, down int64) error {
	if err := Client.Set(ctx, r.cntKey(kind, targetID, model.VoteUp), up, r.voteCntTTL).Err(); err != nil {
		return err
	}
	return Client.Set(ctx, r.cntKey(kind, targetID, model.VoteDown), down, r.voteCntTTL).Err()
}

// WarmState 惰性回填：只在集合已存在时写，避免无界扩张
func (r *VoteCacheRepository) WarmState(ctx context.Context, userID, targetID uint64, kind model.TargetKind, state model.VoteState) {
	for _, v := range []int8{model.VoteUp, model.VoteDown} {
		k := r.setKey(kind, targetID, v)
		if ok, _ := Client.Exists(ctx, k).Result(); ok > 0 {
			member := (state == model.StateUpvoted && v == model.VoteUp) ||
				(state == model.StateDownvoted && v == model.VoteDown)
			if member {
				_ = Client.SAdd(ctx, k, userID).Err()
			} else {
				_ = Client.SRem(ctx, k, userID).Err()
			}
			_ = Client.Expire(ctx, k, r.voteSetTTL).Err()
		}
	}
}

// DeleteCounts 删计数Key，可选延迟二删抵消并发回填窗口
func (r *VoteCacheRepository) DeleteCounts(ctx context.Context, targetID uint64, kind model.TargetKind, delay ...time.Duration) error {
	keys := []string{
		r.cntKey(kind, targetID, model.VoteUp),
		r.cntKey(kind, targetID, model.VoteDown),
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(delay) > 0 && delay[0] > 0 {
		d := delay[0]
		go func() {
			t := time.NewTimer(d)
			defer t.Stop()
			<-t.C
			_ = Client.Del(context.Background(), keys...).Err()
		}()
	}
	return nil
}

// Acquire 请求分布式锁
func (l *DistLock) Acquire(ctx context.Context, kind model.TargetKind, targetID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%s:%d", LockKeyPrefix, kind, targetID)
	return l.RDB.SetNX(ctx, key, token, LockTTL).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, kind model.TargetKind, targetID uint64, token string) error {
	key := fmt.Sprintf("%s:%s:%d", LockKeyPrefix, kind, targetID)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}
