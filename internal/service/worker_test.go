package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/repository/mysql"
	"Karma_Forum/internal/service"
)

func seedOutbox(t *testing.T, db *gorm.DB, targetID uint64) *model.VoteOutbox {
	t.Helper()
	ob := &model.VoteOutbox{
		EventType: model.IntentUpvote.String(),
		UserID:    1,
		TargetID:  targetID,
		Kind:      model.KindPost,
		Payload:   `{"event":"upvote"}`,
	}
	require.NoError(t, db.Create(ob).Error)
	return ob
}

func TestOutboxRelayerDrain(t *testing.T) {
	db := setupTest(t)
	ob := seedOutbox(t, db, 42)

	var sent []uint64
	relayer := service.NewOutboxRelayer(db, func(_ context.Context, row *model.VoteOutbox) error {
		sent = append(sent, row.TargetID)
		return nil
	})
	relayer.DrainOnce(context.Background())

	assert.Equal(t, []uint64{42}, sent)

	var got model.VoteOutbox
	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, mysql.OutboxSent, got.Status)

	// 已发送的不会重复投递
	sent = nil
	relayer.DrainOnce(context.Background())
	assert.Empty(t, sent)
}

func TestOutboxRelayerRetryExhausted(t *testing.T) {
	db := setupTest(t)
	ob := seedOutbox(t, db, 42)

	relayer := service.NewOutboxRelayer(db, func(context.Context, *model.VoteOutbox) error {
		return errors.New("broker down")
	})

	relayer.DrainOnce(context.Background())
	var got model.VoteOutbox
	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, 1, got.Retry)
	assert.Equal(t, mysql.OutboxPending, got.Status)

	// 重试超限后置为 failed，不再捞取
	require.NoError(t, db.Model(&model.VoteOutbox{}).Where("id = ?", ob.ID).Update("retry", 4).Error)
	relayer.DrainOnce(context.Background())

	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, 5, got.Retry)
	assert.Equal(t, mysql.OutboxFailed, got.Status)
}

func TestReconcilerFixesDrift(t *testing.T) {
	db := setupTest(t)
	author := seedUser(t, db, "author", 0)
	voterA := seedUser(t, db, "voter_a", 0)
	voterB := seedUser(t, db, "voter_b", 0)
	creator := seedUser(t, db, "creator", 0)
	community := seedCommunity(t, db, creator, "golang")
	post := seedPost(t, db, community, author)
	comment := seedComment(t, db, post, author)

	// 票集是事实来源：帖子2赞，评论1踩
	for _, v := range []model.Vote{
		{UserID: voterA.ID, TargetID: post.ID, Kind: model.KindPost, Value: model.VoteUp},
		{UserID: voterB.ID, TargetID: post.ID, Kind: model.KindPost, Value: model.VoteUp},
		{UserID: voterA.ID, TargetID: comment.ID, Kind: model.KindComment, Value: model.VoteDown},
	} {
		require.NoError(t, db.Create(&v).Error)
	}

	// 人为制造计数和karma漂移
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).
		Updates(map[string]any{"up_votes": 9, "down_votes": 3}).Error)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", author.ID).
		Update("karma", 100).Error)

	service.NewKarmaReconciler(db).ReconcileOnce(context.Background())

	got := reloadPost(t, db, post.ID)
	assert.Equal(t, int64(2), got.UpVotes)
	assert.Equal(t, int64(0), got.DownVotes)

	var gotComment model.Comment
	require.NoError(t, db.First(&gotComment, comment.ID).Error)
	assert.Equal(t, int64(0), gotComment.UpVotes)
	assert.Equal(t, int64(1), gotComment.DownVotes)

	// karma = 帖子票值和 + 评论票值和 = 2 + (-1)
	assert.Equal(t, int64(1), reloadUser(t, db, author.ID).Karma)
}
