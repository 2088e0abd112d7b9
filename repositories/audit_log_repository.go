package repositories

import (
	"context"
	"errors"

	"basvuru.link/configs"
	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"

	"gorm.io/gorm"
)

// IAuditLogRepository denetim kaydı veritabanı işlemleri için arayüz.
// Kayıtlar salt eklemedir; güncelleme ve silme yoktur.
type IAuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.AuditLog, int64, error)
}

// AuditLogRepository IAuditLogRepository arayüzünü uygular.
type AuditLogRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.AuditLog]
}

// NewAuditLogRepository yeni bir AuditLogRepository örneği oluşturur.
func NewAuditLogRepository() IAuditLogRepository {
	return NewAuditLogRepositoryWithDB(configs.GetDB())
}

// NewAuditLogRepositoryWithDB verilen bağlantıyla repository oluşturur.
func NewAuditLogRepositoryWithDB(db *gorm.DB) IAuditLogRepository {
	base := NewBaseRepository[models.AuditLog](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "event"})
	return &AuditLogRepository{db: db, base: base}
}

// Create yeni bir denetim kaydı ekler.
func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry == nil || entry.Event == "" {
		return errors.New("oluşturulacak denetim kaydı geçerli değil")
	}
	return getDB(ctx, r.db).Create(entry).Error
}

// FindAllPaginated denetim kayıtlarını sayfalayarak döndürür.
func (r *AuditLogRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.AuditLog, int64, error) {
	return r.base.FindAllPaginated(ctx, params)
}

var _ IAuditLogRepository = (*AuditLogRepository)(nil)
