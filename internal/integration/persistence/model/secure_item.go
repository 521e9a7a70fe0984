// Package model defines the database models for the persistence layer.
package model

import "time"

// SecureItemModel represents an encrypted protected-tier record.
// Values are sealed with secretbox before they reach this row; the key
// name itself is not considered sensitive.
type SecureItemModel struct {
	Key        string    `gorm:"primaryKey;column:key;type:text"`
	Nonce      []byte    `gorm:"column:nonce;not null"`
	Ciphertext []byte    `gorm:"column:ciphertext;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName returns the database table name for the SecureItemModel.
func (SecureItemModel) TableName() string {
	return "secure_items"
}
