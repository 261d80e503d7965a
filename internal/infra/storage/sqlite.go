package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"coinboard/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the durable key-value backend on SQLite
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the SQLite database at dbPath.
// An empty dbPath resolves to the per-user data directory.
func NewStorage(dbPath string) (*Storage, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.KVRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// DefaultDBPath resolves the database file path based on OS
func DefaultDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "coinboard", "data", "coinboard.db"), nil
}

// Load returns the value stored under key. A missing key is not an error.
func (s *Storage) Load(key string) (string, bool, error) {
	var rec domain.KVRecord
	err := s.db.First(&rec, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

// Save overwrites the value stored under key
func (s *Storage) Save(key, value string) error {
	return s.db.Save(&domain.KVRecord{Key: key, Value: value}).Error
}

// Keys lists every stored key
func (s *Storage) Keys() ([]string, error) {
	var keys []string
	err := s.db.Model(&domain.KVRecord{}).Order("`key`").Pluck("key", &keys).Error
	return keys, err
}

// Close releases the underlying connection
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
