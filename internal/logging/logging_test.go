package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, dialect, err := database.Open(&config.Config{DatabaseURL: "sqlite:///:memory:", DBMaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(context.Background(), db, dialect))
	return db
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var all, errorsOnly bytes.Buffer
	logger := slog.New(NewMultiHandler(
		NewJSONHandler(&all, slog.LevelDebug),
		NewJSONHandler(&errorsOnly, slog.LevelError),
	))

	logger.Info("created", "flag_id", 1)
	logger.Error("failed", "error", "boom")

	assert.Equal(t, 2, bytes.Count(all.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errorsOnly.Bytes(), []byte("\n")))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(errorsOnly.Bytes(), &rec))
	assert.Equal(t, "failed", rec["msg"])
	assert.Equal(t, "boom", rec["error"])
}

func TestDBHandler_PersistsErrorsOnStop(t *testing.T) {
	db := newTestDB(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := newDBHandler(db, time.Hour)
	logger := slog.New(h)

	logger.Info("not persisted")
	logger.Warn("not persisted either")
	logger.Error("flag request failed",
		"owner_id", "user_a",
		"request_id", "req-1",
		"action", "create_flag",
		"error", "connection reset",
		"flag_id", 7,
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "flag request failed", got.Message)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "user_a", *got.OwnerID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "create_flag", got.Action)
	assert.Equal(t, "connection reset", got.Error)
	assert.JSONEq(t, `{"flag_id":7}`, string(got.Extra))
}

func TestDBHandler_WithAttrs(t *testing.T) {
	db := newTestDB(t)
	h := newDBHandler(db, time.Hour)

	slog.New(h).With("owner_id", "user_b").Error("boom", "error", errors.New("x"))
	h.Stop()

	var got models.SystemLog
	require.NoError(t, db.Take(&got).Error)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "user_b", *got.OwnerID)
	assert.Equal(t, "x", got.Error)
}

func TestDBHandler_IgnoresOwnFlushFailures(t *testing.T) {
	db := newTestDB(t)
	h := newDBHandler(db, time.Hour)

	slog.New(h).Error("failed to flush system logs to DB", "action", flushAction)
	h.Stop()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteOlderThan(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	for _, age := range []time.Duration{time.Hour, 40 * 24 * time.Hour, 90 * 24 * time.Hour} {
		require.NoError(t, db.Create(&models.SystemLog{
			ID:        uuid.New(),
			Timestamp: now.Add(-age),
			Level:     "ERROR",
			Message:   "old",
		}).Error)
	}

	deleted, err := DeleteOlderThan(context.Background(), db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStartCleanup(t *testing.T) {
	db := newTestDB(t)

	assert.Error(t, StartCleanup(db, "not a cron", 30, nil))
	assert.Error(t, StartCleanup(db, "0 3 * * *", 0, nil))

	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	done := make(chan struct{})
	require.NoError(t, StartCleanup(db, "0 3 * * *", 30, done))
	close(done)
}
