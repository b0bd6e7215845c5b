package database

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one stored collection: the JSON array written under Key.
type Document struct {
	Key       string    `gorm:"column:doc_key;primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// DocumentKV is a store.KV over the documents table.
type DocumentKV struct {
	db *gorm.DB
}

func NewDocumentKV(db *gorm.DB) *DocumentKV {
	return &DocumentKV{db: db}
}

func (r *DocumentKV) Get(ctx context.Context, key string) ([]byte, error) {
	var docs []Document
	result := r.db.WithContext(ctx).Where("doc_key = ?", key).Limit(1).Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", key, result.Error)
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return []byte(docs[0].Value), nil
}

func (r *DocumentKV) Set(ctx context.Context, key string, value []byte) error {
	doc := Document{Key: key, Value: string(value), UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}
	return nil
}
