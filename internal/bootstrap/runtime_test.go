package bootstrap

import (
	"testing"

	"tasklink/internal/config"
	"tasklink/internal/database"
	"tasklink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestEnsureDemoRecruiter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
		want    int64
	}{
		{"disabled", config.Config{Env: "development"}, false, 0},
		{"not development", config.Config{Env: "production", SeedDemoRecruiter: true, DemoPassword: "x"}, false, 0},
		{"missing password", config.Config{Env: "development", SeedDemoRecruiter: true, DemoEmail: "demo@tasklink.local"}, true, 0},
		{"created", config.Config{Env: "development", SeedDemoRecruiter: true, DemoEmail: "demo@tasklink.local", DemoPassword: "demo-pass-1"}, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			err := ensureDemoRecruiter(&tt.cfg, db)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var n int64
			require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleCompany).Count(&n).Error)
			assert.Equal(t, tt.want, n)
		})
	}
}
