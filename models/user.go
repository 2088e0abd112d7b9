package models

// User işlemi yapan aktörün kaydıdır. Oturum/giriş mekanizması bu serviste yok;
// aktör her istekte açıkça belirtilir ve yetki kontrolü bu kayda göre yapılır.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	IsSystem bool   `gorm:"default:false;index" json:"is_system"` // Yönetici rolü
	IsActive bool   `gorm:"default:true;index" json:"is_active"`
}
