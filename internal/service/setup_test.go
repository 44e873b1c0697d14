package service_test

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Karma_Forum/internal/model"
	rds "Karma_Forum/internal/repository/redis"
)

// setupTest 每个用例独立的内存库 + miniredis
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	require.NoError(t, rds.Init(mr.Addr(), "", 0))
	t.Cleanup(func() { _ = rds.Close() })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityModerator{},
		&model.CommunityBan{},
		&model.Subscription{},
		&model.Post{},
		&model.Comment{},
		&model.Vote{},
		&model.VoteOutbox{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, karma int64) *model.User {
	t.Helper()
	u := &model.User{
		Username: name,
		Password: "x",
		Email:    name + "@test.local",
		Karma:    karma,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedAdmin(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{
		Username: name,
		Password: "x",
		Email:    name + "@test.local",
		Role:     model.RoleAdmin,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, creator *model.User, name string) *model.Community {
	t.Helper()
	c := &model.Community{Name: name, CreatorID: creator.ID}
	require.NoError(t, db.Create(c).Error)
	require.NoError(t, db.Create(&model.CommunityModerator{CommunityID: c.ID, UserID: creator.ID}).Error)
	return c
}

func seedPost(t *testing.T, db *gorm.DB, community *model.Community, author *model.User) *model.Post {
	t.Helper()
	p := &model.Post{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Title:       "title",
		Content:     "content",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedComment(t *testing.T, db *gorm.DB, post *model.Post, author *model.User) *model.Comment {
	t.Helper()
	c := &model.Comment{
		PostID:      post.ID,
		AuthorID:    author.ID,
		Content:     "reply",
		CommunityID: post.CommunityID,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func reloadUser(t *testing.T, db *gorm.DB, id uint64) *model.User {
	t.Helper()
	var u model.User
	require.NoError(t, db.First(&u, id).Error)
	return &u
}

func reloadPost(t *testing.T, db *gorm.DB, id uint64) *model.Post {
	t.Helper()
	var p model.Post
	require.NoError(t, db.First(&p, id).Error)
	return &p
}
