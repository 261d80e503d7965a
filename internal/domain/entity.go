package domain

import (
	"time"
)

// KVRecord is one slot of the persistent key-value store.
type KVRecord struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by the sqlite backend.
func (KVRecord) TableName() string {
	return "kv_records"
}
