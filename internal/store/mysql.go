package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry Model
type KVEntry struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:191"`      // Storage key
	Value     string    `gorm:"column:kv_value;type:longtext;not null"` // Encoded record
	UpdatedAt time.Time `gorm:"autoUpdateTime"`                         // Last write time
}

// TableName pins the table name shared with the sqlite schema
func (KVEntry) TableName() string { return "kv_entries" }

// SQL keeps records in a relational table through GORM.
type SQL struct {
	db *gorm.DB
}

// OpenMySQL connects to MySQL with the given DSN.
func OpenMySQL(dsn string) (*SQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	return NewSQL(db), nil
}

// NewSQL wraps an open GORM handle; the kv_entries table must exist (see internal/db).
func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormRead(tx *gorm.DB, key string) (string, bool, error) {
	var entry KVEntry
	err := tx.Where("kv_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", key, err)
	}
	return entry.Value, true, nil
}

func gormWrite(tx *gorm.DB, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kv_value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	return gormRead(s.db.WithContext(ctx), key)
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	return gormWrite(s.db.WithContext(ctx), key, value)
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&KVEntry{}).Error; err != nil {
		return unavailable("remove", key, err)
	}
	return nil
}

// Update locks the row with SELECT ... FOR UPDATE and rewrites it in the same transaction.
func (s *SQL) Update(ctx context.Context, key string, fn UpdateFunc) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, ok, err := gormRead(tx.Clauses(clause.Locking{Strength: "UPDATE"}), key)
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			fnErr = err
			return err // Return error to rollback
		}
		return gormWrite(tx, key, next)
	})
	if err != nil && fnErr == nil && !errors.Is(err, ErrUnavailable) {
		return unavailable("update", key, err)
	}
	return err
}
