package storage

import (
	"context"
	"encoding/json"
	"errors"

	"bitbucket.org/northguard/safety_backend/utils"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL duplicate-entry error code.
const mysqlErrDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}

// DocumentRecord is the MySQL row backing one document.
type DocumentRecord struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Collection string    `gorm:"size:64;not null;uniqueIndex:idx_collection_org_doc;index:idx_collection_org" json:"collection"`
	OrgId      string    `gorm:"size:64;not null;uniqueIndex:idx_collection_org_doc;index:idx_collection_org" json:"org_id"`
	DocId      string    `gorm:"size:64;not null;uniqueIndex:idx_collection_org_doc" json:"doc_id"`
	Version    int       `gorm:"not null;default:1" json:"version"`
	Body       []byte    `gorm:"type:json" json:"body"`
	CreatedAt  int64     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  int64     `gorm:"autoUpdateTime" json:"updated_at"`
}

// GormStore persists documents in MySQL through gorm. Optimistic concurrency
// is enforced with a version column in the WHERE clause of every update.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, collection string, orgId string, id string) (*Document, error) {
	var rec DocumentRecord
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND org_id = ? AND doc_id = ?", collection, orgId, id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound(collection, id)
		}
		return nil, err
	}
	return &Document{ID: rec.DocId, Version: rec.Version, Body: rec.Body}, nil
}

func (s *GormStore) Insert(ctx context.Context, collection string, orgId string, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	rec := DocumentRecord{
		Collection: collection,
		OrgId:      orgId,
		DocId:      id,
		Version:    1,
		Body:       body,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicateKey(err) {
			return utils.NewValidationError("document id already exists: " + id)
		}
		return err
	}
	return nil
}

func (s *GormStore) Put(ctx context.Context, collection string, orgId string, id string, doc interface{}, expectedVersion int) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Model(&DocumentRecord{}).
		Where("collection = ? AND org_id = ? AND doc_id = ? AND version = ?", collection, orgId, id, expectedVersion).
		Updates(map[string]interface{}{"body": body, "version": expectedVersion + 1})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a stale write from a missing document.
		var count int64
		if err := s.DB.WithContext(ctx).Model(&DocumentRecord{}).
			Where("collection = ? AND org_id = ? AND doc_id = ?", collection, orgId, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return utils.NewNotFound(collection, id)
		}
		return utils.NewConcurrentModification(collection, id)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, collection string, orgId string) ([]Document, error) {
	var recs []DocumentRecord
	err := s.DB.WithContext(ctx).
		Where("collection = ? AND org_id = ?", collection, orgId).
		Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, Document{ID: rec.DocId, Version: rec.Version, Body: rec.Body})
	}
	return docs, nil
}
