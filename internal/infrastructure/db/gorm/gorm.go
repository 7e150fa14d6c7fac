package gormdb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adminhub/admin-system/internal/core/domain"
)

// Config captures the settings for opening the relational store.
type Config struct {
	Path string
}

// Connect opens the SQLite database, migrates the schema, and seeds the
// built-in system roles.
func Connect(cfg Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.Menu{},
		&domain.RoleMenu{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	if err := seedSystemRoles(db); err != nil {
		return nil, fmt.Errorf("seed system roles: %w", err)
	}
	return db, nil
}

// seedSystemRoles guarantees the reserved admin and common roles exist with
// is_system set. They are created once and never touched again.
func seedSystemRoles(db *gorm.DB) error {
	seeds := []domain.Role{
		{Name: "Administrator", Code: domain.RoleCodeAdmin, Status: domain.RoleStatusEnabled, IsSystem: true},
		{Name: "Common User", Code: domain.RoleCodeCommon, Status: domain.RoleStatusEnabled, IsSystem: true},
	}
	for _, seed := range seeds {
		var count int64
		if err := db.Model(&domain.Role{}).Where("code = ?", seed.Code).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&seed).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
