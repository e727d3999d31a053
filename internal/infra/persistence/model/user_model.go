// Package model contains the GORM persistence models.
package model

import "time"

// UserModel mirrors the 'users' table. The store assigns the numeric id.
// Email carries the unique external lookup key; the salt is unique per user
// so the same digest can never be shared between records.
type UserModel struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	Email           string `gorm:"type:varchar(255);uniqueIndex;not null"`
	FirstName       string `gorm:"type:varchar(100);not null"`
	LastName        string `gorm:"type:varchar(100);not null"`
	Pseudo          string `gorm:"type:varchar(100);not null"`
	Digest          string `gorm:"type:varchar(255);not null"`
	Salt            string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Role            int    `gorm:"not null;default:1"`
	Confirmed       bool   `gorm:"not null;default:false"`
	ConfirmationKey string `gorm:"type:varchar(255);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
