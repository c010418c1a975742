package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentfit/talentfit/internal/models"
)

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"), zerolog.Nop())
	require.NoError(t, err)

	for _, table := range []interface{}{&models.User{}, &models.CompanyRecruiter{}, &models.VerificationCode{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestOpenMemory_IsolatedPerCall(t *testing.T) {
	a, err := OpenMemory()
	require.NoError(t, err)
	b, err := OpenMemory()
	require.NoError(t, err)

	require.NoError(t, a.Create(&models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleAdmin, Name: "A"}).Error)

	var count int64
	require.NoError(t, b.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
