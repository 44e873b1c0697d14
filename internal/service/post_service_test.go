package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Karma_Forum/internal/model"
	"Karma_Forum/internal/pkg"
	"Karma_Forum/internal/service"
)

func TestBannedUserCannotPost(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	banned := seedUser(t, db, "banned", 0)
	community := seedCommunity(t, db, creator, "golang")
	require.NoError(t, db.Create(&model.CommunityBan{CommunityID: community.ID, UserID: banned.ID}).Error)

	svc := service.NewPostService(db)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, banned.ID, community.ID, "hello", "body")
	require.ErrorIs(t, err, pkg.ErrBanned)

	// 守卫失败时不能有任何落库
	var n int64
	require.NoError(t, db.Model(&model.Post{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	post, err := svc.CreatePost(ctx, creator.ID, community.ID, "hello", "body")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
}

func TestBannedUserCannotComment(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	banned := seedUser(t, db, "banned", 0)
	community := seedCommunity(t, db, creator, "golang")
	post := seedPost(t, db, community, creator)
	require.NoError(t, db.Create(&model.CommunityBan{CommunityID: community.ID, UserID: banned.ID}).Error)

	svc := service.NewCommentService(db)

	// 评论继承帖子所在社区的封禁
	_, err := svc.CreateComment(context.Background(), banned.ID, post.ID, "reply")
	require.ErrorIs(t, err, pkg.ErrBanned)

	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestDeletePostPermissions(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	author := seedUser(t, db, "author", 0)
	outsider := seedUser(t, db, "outsider", 0)
	admin := seedAdmin(t, db, "admin")
	community := seedCommunity(t, db, creator, "golang")

	svc := service.NewPostService(db)
	ctx := context.Background()

	post := seedPost(t, db, community, author)
	require.ErrorIs(t, svc.DeletePost(ctx, outsider.ID, post.ID), pkg.ErrNotModerator)
	require.NoError(t, svc.DeletePost(ctx, author.ID, post.ID))

	// 软删后不可见
	_, err := svc.Get(post.ID)
	require.ErrorIs(t, err, pkg.ErrPostNotFound)

	post = seedPost(t, db, community, author)
	require.NoError(t, svc.DeletePost(ctx, creator.ID, post.ID))

	post = seedPost(t, db, community, author)
	require.NoError(t, svc.DeletePost(ctx, admin.ID, post.ID))
}

func TestDeleteCommentPermissions(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	author := seedUser(t, db, "author", 0)
	outsider := seedUser(t, db, "outsider", 0)
	community := seedCommunity(t, db, creator, "golang")
	post := seedPost(t, db, community, creator)

	svc := service.NewCommentService(db)
	ctx := context.Background()

	comment := seedComment(t, db, post, author)
	require.ErrorIs(t, svc.DeleteComment(ctx, outsider.ID, comment.ID), pkg.ErrNotModerator)
	require.NoError(t, svc.DeleteComment(ctx, author.ID, comment.ID))

	// 版主可删他人评论
	comment = seedComment(t, db, post, author)
	require.NoError(t, svc.DeleteComment(ctx, creator.ID, comment.ID))
}

func TestListByCommunityCursor(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	community := seedCommunity(t, db, creator, "golang")
	for i := 0; i < 5; i++ {
		seedPost(t, db, community, creator)
	}

	svc := service.NewPostService(db)

	first, next, err := svc.ListByCommunityCursor(community.ID, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotZero(t, next)

	second, _, err := svc.ListByCommunityCursor(community.ID, next, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	// 新帖在前，游标翻页不重不漏
	assert.NotEqual(t, first[1].ID, second[0].ID)
	assert.Less(t, second[0].ID, first[1].ID)
}
