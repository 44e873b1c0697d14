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

func TestCreateCommunityKarmaGate(t *testing.T) {
	db := setupTest(t)
	poor := seedUser(t, db, "poor", 49)
	rich := seedUser(t, db, "rich", 50)

	svc := service.NewCommunityService(db, 50)
	ctx := context.Background()

	_, err := svc.CreateCommunity(ctx, poor.ID, "golang", "")
	require.ErrorIs(t, err, pkg.ErrInsufficientKarma)

	community, err := svc.CreateCommunity(ctx, rich.ID, "golang", "a place")
	require.NoError(t, err)
	assert.Equal(t, rich.ID, community.CreatorID)
	// 创建者必须在版主集合里
	assert.Contains(t, community.Moderators, rich.ID)
}

func TestCreateCommunityNamePattern(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "rich", 100)

	svc := service.NewCommunityService(db, 50)
	ctx := context.Background()

	for _, bad := range []string{"", "has space", "semi;colon", "dash-name", "点"} {
		_, err := svc.CreateCommunity(ctx, user.ID, bad, "")
		require.ErrorIs(t, err, pkg.ErrCommunityName, "name %q", bad)
	}

	_, err := svc.CreateCommunity(ctx, user.ID, "ok_name_42", "")
	require.NoError(t, err)
}

func TestBanRequiresModerator(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	outsider := seedUser(t, db, "outsider", 0)
	target := seedUser(t, db, "target", 0)
	community := seedCommunity(t, db, creator, "golang")

	svc := service.NewCommunityService(db, 50)
	ctx := context.Background()

	_, err := svc.Ban(ctx, outsider.ID, community.ID, target.ID)
	require.ErrorIs(t, err, pkg.ErrNotModerator)

	view, err := svc.Ban(ctx, creator.ID, community.ID, target.ID)
	require.NoError(t, err)
	assert.Contains(t, view.BannedUsers, target.ID)

	// 重复封禁
	_, err = svc.Ban(ctx, creator.ID, community.ID, target.ID)
	require.ErrorIs(t, err, pkg.ErrAlreadyBanned)
}

func TestBanCreatorRejected(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	mod := seedUser(t, db, "mod", 0)
	community := seedCommunity(t, db, creator, "golang")
	require.NoError(t, db.Create(&model.CommunityModerator{CommunityID: community.ID, UserID: mod.ID}).Error)

	svc := service.NewCommunityService(db, 50)

	_, err := svc.Ban(context.Background(), mod.ID, community.ID, creator.ID)
	require.ErrorIs(t, err, pkg.ErrBanCreator)
}

func TestAdminCanBan(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	admin := seedAdmin(t, db, "admin")
	target := seedUser(t, db, "target", 0)
	community := seedCommunity(t, db, creator, "golang")

	svc := service.NewCommunityService(db, 50)

	view, err := svc.Ban(context.Background(), admin.ID, community.ID, target.ID)
	require.NoError(t, err)
	assert.Contains(t, view.BannedUsers, target.ID)
}

func TestUnban(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	target := seedUser(t, db, "target", 0)
	community := seedCommunity(t, db, creator, "golang")

	svc := service.NewCommunityService(db, 50)
	ctx := context.Background()

	// 未封禁时解封报错
	_, err := svc.Unban(ctx, creator.ID, community.ID, target.ID)
	require.ErrorIs(t, err, pkg.ErrNotBanned)

	_, err = svc.Ban(ctx, creator.ID, community.ID, target.ID)
	require.NoError(t, err)

	view, err := svc.Unban(ctx, creator.ID, community.ID, target.ID)
	require.NoError(t, err)
	assert.NotContains(t, view.BannedUsers, target.ID)
}

func TestSubscribeLifecycle(t *testing.T) {
	db := setupTest(t)
	creator := seedUser(t, db, "creator", 0)
	user := seedUser(t, db, "user", 0)
	community := seedCommunity(t, db, creator, "golang")

	svc := service.NewCommunityService(db, 50)
	ctx := context.Background()

	view, err := svc.Subscribe(ctx, user.ID, community.ID)
	require.NoError(t, err)
	assert.Contains(t, view.Subscriptions, community.ID)

	got, err := svc.Get(ctx, community.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Subscribers)

	_, err = svc.Subscribe(ctx, user.ID, community.ID)
	require.ErrorIs(t, err, pkg.ErrAlreadySubscribed)

	view, err = svc.Unsubscribe(ctx, user.ID, community.ID)
	require.NoError(t, err)
	assert.NotContains(t, view.Subscriptions, community.ID)

	got, err = svc.Get(ctx, community.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Subscribers)

	_, err = svc.Unsubscribe(ctx, user.ID, community.ID)
	require.ErrorIs(t, err, pkg.ErrNotSubscribed)
}

func TestSubscribeCommunityNotFound(t *testing.T) {
	db := setupTest(t)
	user := seedUser(t, db, "user", 0)

	svc := service.NewCommunityService(db, 50)

	_, err := svc.Subscribe(context.Background(), user.ID, 9999)
	require.ErrorIs(t, err, pkg.ErrCommunityNotFound)
}
