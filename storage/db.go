package storage

import (
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key/value row.
type Entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}

// DB is a Port backed by a relational database through GORM. Production
// runs against PostgreSQL; tests wrap an in-memory SQLite handle.
type DB struct {
	db *gorm.DB
}

// OpenDB connects to PostgreSQL with the given DSN and migrates the
// key/value table.
func OpenDB(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewDB(db)
}

// NewDB wraps an existing GORM handle.
func NewDB(db *gorm.DB) (*DB, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (s *DB) Get(key string) ([]byte, error) {
	var e Entry
	if err := s.db.Where("key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e.Value, nil
}

func (s *DB) Set(key string, value []byte) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *DB) Delete(key string) error {
	return s.db.Delete(&Entry{}, "key = ?", key).Error
}

// Close releases the underlying connection pool.
func (s *DB) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
