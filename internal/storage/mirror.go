package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
)

// snapshotRow is the single-row mirror of the snapshot document, keyed by the
// fixed storage key.
type snapshotRow struct {
	Key       string `gorm:"primaryKey;size:64"`
	Document  []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (snapshotRow) TableName() string { return "snapshots" }

// GormMirror keeps the snapshot visible to other devices through a shared
// Postgres instance.
type GormMirror struct {
	db *gorm.DB
}

func OpenMirror(dsn string) (*GormMirror, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, err
	}
	return &GormMirror{db: db}, nil
}

func (m *GormMirror) Push(ctx context.Context, key string, doc models.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	row := snapshotRow{Key: key, Document: b, UpdatedAt: time.Now()}
	return m.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row).Error
}

func (m *GormMirror) Pull(ctx context.Context, key string) (*models.Document, error) {
	var row snapshotRow
	err := m.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(row.Document, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
