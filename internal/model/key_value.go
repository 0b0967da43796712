package model

import "time"

// KeyValue is one entry of the device-local store.
type KeyValue struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
