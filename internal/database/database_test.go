package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wacrm/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDatabase(t *testing.T) *Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestNew_SchemaIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening the same file must not fail on CREATE TABLE.
	db, err = New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestUpsertConversation_CreateThenUpdate(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	first := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	conv, err := db.UpsertConversation(ctx, "5511999", "Ana", first)
	require.NoError(t, err)
	assert.Equal(t, "5511999", conv.Phone)
	assert.Equal(t, "Ana", conv.Name)

	second := first.Add(time.Hour)
	updated, err := db.UpsertConversation(ctx, "5511999", "Ana Silva", second)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, updated.ID, "upsert must not create a second row")
	assert.Equal(t, "Ana Silva", updated.Name)
	assert.True(t, updated.LastMessageAt.After(conv.LastMessageAt))

	conversations, err := db.ListConversations(ctx)
	require.NoError(t, err)
	assert.Len(t, conversations, 1)
}

func TestEnsureConversation_PreservesName(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	created, err := db.EnsureConversation(ctx, "5511999", now)
	require.NoError(t, err)
	assert.Equal(t, "5511999", created.Name, "new conversations are named after the phone")

	_, err = db.UpsertConversation(ctx, "5511999", "Ana", now.Add(time.Minute))
	require.NoError(t, err)

	ensured, err := db.EnsureConversation(ctx, "5511999", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, created.ID, ensured.ID)
	assert.Equal(t, "Ana", ensured.Name, "ensure must not overwrite a learned name")
	assert.True(t, ensured.LastMessageAt.After(created.LastMessageAt))
}

func TestGetConversationByPhone_NotFound(t *testing.T) {
	db := setupTestDatabase(t)

	conv, err := db.GetConversationByPhone(context.Background(), "0000000")
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestSaveMessage_DeduplicatesByProviderMessageID(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	conv, err := db.UpsertConversation(ctx, "5511999", "Ana", now)
	require.NoError(t, err)

	providerID := "m1"
	msg := &models.Message{
		ConversationID:    conv.ID,
		ProviderMessageID: &providerID,
		SenderPhone:       "5511999",
		Text:              "Oi",
		Type:              models.MessageTypeText,
		Timestamp:         now,
		Status:            models.MessageStatusReceived,
	}

	inserted, err := db.SaveMessage(ctx, msg)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, msg.ID)

	replay := &models.Message{
		ConversationID:    conv.ID,
		ProviderMessageID: &providerID,
		SenderPhone:       "5511999",
		Text:              "Oi (replay with different text)",
		Type:              models.MessageTypeText,
		Timestamp:         now.Add(time.Minute),
		Status:            models.MessageStatusReceived,
	}

	inserted, err = db.SaveMessage(ctx, replay)
	require.NoError(t, err)
	assert.False(t, inserted, "replay must be a silent no-op")

	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Oi", messages[0].Text, "original row must be unchanged")
}

func TestSaveMessage_NilProviderIDNeverDeduplicates(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	conv, err := db.UpsertConversation(ctx, "5511999", "Ana", now)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		inserted, err := db.SaveMessage(ctx, &models.Message{
			ConversationID: conv.ID,
			SenderPhone:    "5511999",
			Text:           "sem id",
			Type:           models.MessageTypeText,
			Timestamp:      now,
			Status:         models.MessageStatusSent,
		})
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestListMessages_OrderedByTimestamp(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	conv, err := db.UpsertConversation(ctx, "5511999", "Ana", base)
	require.NoError(t, err)

	// Inserted newest first to prove ordering comes from the query.
	for i := 2; i >= 0; i-- {
		_, err := db.SaveMessage(ctx, &models.Message{
			ConversationID: conv.ID,
			SenderPhone:    "5511999",
			Text:           string(rune('a' + i)),
			Type:           models.MessageTypeText,
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			Status:         models.MessageStatusReceived,
		})
		require.NoError(t, err)
	}

	messages, err := db.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "a", messages[0].Text)
	assert.Equal(t, "b", messages[1].Text)
	assert.Equal(t, "c", messages[2].Text)
}

func TestListConversations_CountsAndOrder(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	older, err := db.UpsertConversation(ctx, "5511111", "Older", base)
	require.NoError(t, err)
	newer, err := db.UpsertConversation(ctx, "5511222", "Newer", base.Add(time.Hour))
	require.NoError(t, err)

	_, err = db.SaveMessage(ctx, &models.Message{
		ConversationID: older.ID,
		SenderPhone:    "5511111",
		Text:           "hi",
		Type:           models.MessageTypeText,
		Timestamp:      base,
		Status:         models.MessageStatusReceived,
	})
	require.NoError(t, err)

	conversations, err := db.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, newer.ID, conversations[0].ID, "most recent activity first")
	assert.Equal(t, int64(0), conversations[0].MessageCount)
	assert.Equal(t, int64(1), conversations[1].MessageCount)
}

func TestWebhookConfig_RoundTrip(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	cfg, err := db.GetWebhookConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	require.NoError(t, db.SaveWebhookConfig(ctx, "https://crm.example.com/hook", "s3cret-token"))
	require.NoError(t, db.SaveWebhookConfig(ctx, "https://crm.example.com/hook-v2", "other-token"))

	cfg, err = db.GetWebhookConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "https://crm.example.com/hook-v2", cfg.WebhookURL, "latest config wins")
	assert.Equal(t, "other-token", cfg.SecretToken)
	assert.True(t, cfg.IsActive)
}

func TestWebhookConfig_EncryptedAtRest(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	require.NoError(t, os.Setenv("WACRM_ENCRYPTION_SECRET", secret))
	defer os.Unsetenv("WACRM_ENCRYPTION_SECRET")

	db := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.SaveWebhookConfig(ctx, "https://crm.example.com/hook", "plain-token"))

	var stored string
	err := db.db.QueryRowContext(ctx, "SELECT secret_token FROM webhook_config").Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "plain-token", stored, "token must not be stored in plaintext")

	cfg, err := db.GetWebhookConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "plain-token", cfg.SecretToken)
}
