package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// record is the single KV table behind the postgres store.
type record struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (record) TableName() string { return "records" }

// Postgres backs the store with a postgres database through gorm,
// for deployments that already run postgres instead of redis.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects with the given DSN, applies pool settings and
// migrates the records table.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrating records table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var rec record
	err := p.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres get %q: %w", key, err)
	}
	return rec.Value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("postgres set %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	tx := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&record{Key: key, Value: value})
	if tx.Error != nil {
		return false, fmt.Errorf("postgres conditional set %q: %w", key, tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&record{}).Where("key = ?", key).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("postgres exists %q: %w", key, err)
	}
	return n > 0, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
