// file: internals/kv/kv.go
//
// Small durable key-value port. Deferred reconciliation items and exclusion
// sets are the only state that outlives a single request, and both are stored
// here under fixed keys so they survive restarts.
package kv

import (
	"errors"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the persistence port. Values are raw JSON; callers own the shape.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// --- MODEL kv_entries --------------------------------------------------------

type Entry struct {
	Key       string         `json:"key" gorm:"column:key;primaryKey;type:varchar(120)"`
	Value     datatypes.JSON `json:"value" gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string { return "kv_entries" }

// --- GORM-backed store -------------------------------------------------------

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) Get(key string) ([]byte, error) {
	var e Entry
	if err := s.DB.First(&e, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(e.Value), nil
}

func (s *GormStore) Set(key string, value []byte) error {
	e := Entry{Key: key, Value: datatypes.JSON(value)}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *GormStore) Delete(key string) error {
	return s.DB.Delete(&Entry{}, "key = ?", key).Error
}

// --- In-memory store (tests, local runs) ------------------------------------

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
