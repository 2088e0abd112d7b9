package models

// Section bir formun soru gruplayan alt bölümüdür.
// Yalnızca HasSections = true olan bir forma bağlanabilir.
type Section struct {
	BaseModel
	FormID uint   `gorm:"index;not null" json:"form"`
	Title  string `gorm:"type:varchar(255);not null;index" json:"title"`
	Number int    `gorm:"not null;default:0" json:"number"` // Görüntüleme sırası

	// GORM İlişkileri
	Questions []Question `gorm:"foreignKey:SectionID" json:"questions"`
}
