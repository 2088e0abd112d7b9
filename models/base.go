package models

import (
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey işlemi yapan kullanıcının ID'sini context üzerinden taşır.
// Servis katmanı her çağrıda bu değeri set eder, BaseModel hook'ları okur.
const ContextUserIDKey contextKey = "user_id"

// BaseModel tüm modellere gömülen ortak alanlar.
type BaseModel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedBy *uint          `json:"created_by,omitempty"`
	UpdatedBy *uint          `json:"-"`
	DeletedBy *uint          `json:"-"`
}

// BeforeCreate context'teki kullanıcı ID'sini CreatedBy alanına yazar.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if uid, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && uid != 0 {
		m.CreatedBy = &uid
	}
	return nil
}

// BeforeUpdate context'teki kullanıcı ID'sini UpdatedBy alanına yazar.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if uid, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && uid != 0 {
		m.UpdatedBy = &uid
	}
	return nil
}
