package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maxmsylvain/Vanish/internal/model"
	"github.com/maxmsylvain/Vanish/internal/repository"
)

const (
	testWindow    = 3 * time.Hour
	testBotWindow = 15 * time.Minute
)

type testEnv struct {
	db      *gorm.DB
	users   repository.UserRepository
	posts   repository.PostRepository
	follows repository.FollowRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Post{}, &model.Follow{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return &testEnv{
		db:      db,
		users:   repository.NewUserRepository(db),
		posts:   repository.NewPostRepository(db, testWindow, testBotWindow),
		follows: repository.NewFollowRepository(db),
	}
}

func postAt(userID, content string, createdAt time.Time) *model.Post {
	return &model.Post{UserID: userID, Content: content, PostType: model.PostTypeUser, CreatedAt: createdAt}
}

func (e *testEnv) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}
