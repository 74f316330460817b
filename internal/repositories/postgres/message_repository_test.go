package postgres

import (
	"context"
	"testing"

	"chat-realtime/internal/database"
	"chat-realtime/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	alice, bob, carol models.User
	conv              models.Conversation
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		alice: models.User{Username: "alice", Email: "alice@example.com", Avatar: "https://example.com/a.png"},
		bob:   models.User{Username: "bob", Email: "bob@example.com"},
		carol: models.User{Username: "carol", Email: "carol@example.com"},
	}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	require.NoError(t, db.Create(&f.carol).Error)

	f.conv = models.Conversation{Name: "general", Type: models.ConversationTypeGroup}
	require.NoError(t, db.Create(&f.conv).Error)
	require.NoError(t, db.Model(&f.conv).Association("Members").Append(&f.alice, &f.bob))
	return f
}

func TestVerifyMembership(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	ok, err := repo.VerifyMembership(ctx, f.alice.ID, f.conv.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.VerifyMembership(ctx, f.carol.ID, f.conv.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.VerifyMembership(ctx, f.alice.ID, f.conv.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("DeletedConversation", func(t *testing.T) {
		require.NoError(t, db.Delete(&f.conv).Error)
		ok, err := repo.VerifyMembership(ctx, f.alice.ID, f.conv.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAppendMessage(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewMessageRepository(db)

	msg, err := repo.AppendMessage(context.Background(), f.alice.ID, f.conv.ID, "hello", true)
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, f.conv.ID, msg.ConversationID)
	assert.True(t, msg.IsAISuggestion)
	assert.False(t, msg.CreatedAt.IsZero())
	assert.Equal(t, f.alice.ID, msg.Sender.ID)
	assert.Equal(t, "alice", msg.Sender.Username)
	assert.Equal(t, "https://example.com/a.png", msg.Sender.Avatar)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTouchConversation(t *testing.T) {
	db := setupTestDB(t)
	f := seed(t, db)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.TouchConversation(ctx, f.conv.ID))

	var conv models.Conversation
	require.NoError(t, db.First(&conv, f.conv.ID).Error)
	require.NotNil(t, conv.LastMessageAt)

	err := repo.TouchConversation(ctx, f.conv.ID+100)
	require.ErrorIs(t, err, ErrConversationNotFound)
}
