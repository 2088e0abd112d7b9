package models

// AuditLog mutasyon ve görüntüleme işlemlerinin denetim kaydıdır. Salt ekleme
// yapılır; doğruluk açısından yük taşımaz, yazılamaması işlemi bozmaz.
type AuditLog struct {
	BaseModel
	EventID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"event_id"`
	Event   string `gorm:"type:varchar(100);not null;index" json:"event"`
	ActorID uint   `gorm:"index" json:"actor_id"`
	Message string `gorm:"type:text" json:"message"`
	Diff    string `gorm:"type:jsonb" json:"diff,omitempty"` // Opsiyonel değişiklik özeti (JSON)
}
