package po

import "time"

// KVEntryPO one persisted collection (a cart or an order history) under its key
// Note: Only used for database mapping, does not contain any business logic
type KVEntryPO struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (KVEntryPO) TableName() string {
	return "kv_entries"
}
