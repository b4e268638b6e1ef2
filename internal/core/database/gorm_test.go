package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMySQLDSN(t *testing.T) {
	full, masked, err := mysqlDSN("root:pw@tcp(127.0.0.1:3306)/studio", "", "")
	require.NoError(t, err)
	assert.Contains(t, full, "root:pw@tcp(127.0.0.1:3306)/studio?")
	assert.Contains(t, full, "parseTime=true")
	assert.Contains(t, full, "charset=utf8mb4")
	assert.Contains(t, masked, "root:****@tcp(127.0.0.1:3306)/studio")
	assert.NotContains(t, masked, "pw@")

	full, _, err = mysqlDSN("x:y@tcp(h:1)/d?charset=latin1", "admin", "secret")
	require.NoError(t, err)
	assert.Contains(t, full, "admin:secret@tcp(h:1)/d")
	assert.Contains(t, full, "charset=latin1")

	_, _, err = mysqlDSN("root:pw@tcp(h:1)/d?timeout=soon", "", "")
	assert.Error(t, err)
}

func TestNewGormSQLiteAndMigrate(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", LogLevel: "silent"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestNewGormUnsupported(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestGormLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), "warn", 50*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	gl.Trace(ctx, time.Now(), fc, nil)
	gl.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	gl.Trace(ctx, time.Now(), fc, errors.New("boom"))
	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, "query failed", entries[0].Message)
	assert.Equal(t, "slow query", entries[1].Message)

	gl.LogMode(logger.Silent).Trace(ctx, time.Now(), fc, errors.New("boom"))
	gl.LogMode(logger.Info).Trace(ctx, time.Now(), fc, nil)
	entries = logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, "query", entries[0].Message)
}
