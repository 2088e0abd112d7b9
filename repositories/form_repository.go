package repositories

import (
	"context"
	"errors"
	"time"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IFormRepository form veritabanı işlemleri için arayüz.
type IFormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindByType(ctx context.Context, formType string) (*models.Form, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Form, int64, error)
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, form *models.Form, deletedByUserID uint) error
	Count(ctx context.Context) (int64, error)
}

// FormRepository IFormRepository arayüzünü uygular.
type FormRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Form]
}

// NewFormRepository yeni bir FormRepository örneği oluşturur.
func NewFormRepository() IFormRepository {
	return NewFormRepositoryWithDB(configs.GetDB())
}

// NewFormRepositoryWithDB verilen bağlantıyla repository oluşturur.
func NewFormRepositoryWithDB(db *gorm.DB) IFormRepository {
	base := NewBaseRepository[models.Form](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "type", "title"})
	return &FormRepository{db: db, base: base}
}

// Create yeni bir form kaydı oluşturur.
func (r *FormRepository) Create(ctx context.Context, form *models.Form) error {
	if form == nil {
		return errors.New("oluşturulacak form geçerli değil")
	}
	return getDB(ctx, r.db).Create(form).Error
}

// preloadChildren formun tüm çocuk grafını sıralı yükler.
func preloadChildren(db *gorm.DB) *gorm.DB {
	ordered := func(db *gorm.DB) *gorm.DB { return db.Order("number") }
	return db.
		Preload("Questions", ordered).
		Preload("Questions.SubQuestions", ordered).
		Preload("Sections", ordered).
		Preload("Sections.Questions", ordered).
		Preload("Sections.Questions.SubQuestions", ordered)
}

// FindByID formu çocuk grafıyla birlikte bulur.
func (r *FormRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Form ID")
	}
	var form models.Form
	err := preloadChildren(getDB(ctx, r.db)).First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// FindByType verilen türdeki formu bulur. Tür başına en fazla bir form vardır.
func (r *FormRepository) FindByType(ctx context.Context, formType string) (*models.Form, error) {
	if formType == "" {
		return nil, errors.New("geçersiz form türü")
	}
	var form models.Form
	err := preloadChildren(getDB(ctx, r.db)).Where("type = ?", formType).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.FindByType: DB error", zap.String("type", formType), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// FindAllPaginated formları sayfalayarak bulur. Çocuk graf yüklenmez.
func (r *FormRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Form, int64, error) {
	var forms []models.Form
	var totalCount int64
	db := getDB(ctx, r.db)

	query := db.Model(&models.Form{})
	if params.Name != "" {
		query = query.Where("title ILIKE ?", "%"+params.Name+"%")
	}

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("FormRepository.Count (Paginated): DB error", zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return forms, 0, nil
	}

	err := query.
		Order(r.base.orderClause(params)).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&forms).Error
	if err != nil {
		configslog.Log.Error("FormRepository.Find (Paginated): DB error", zap.Error(err))
		return nil, totalCount, err
	}
	return forms, totalCount, nil
}

// Update form kaydını günceller.
func (r *FormRepository) Update(ctx context.Context, form *models.Form) error {
	if form == nil || form.ID == 0 {
		return errors.New("güncellenecek form geçerli değil")
	}
	return getDB(ctx, r.db).Save(form).Error
}

// Delete formu siler (soft delete). Çocuk kayıtların silinmesi servis
// katmanındaki kademeli silmenin sorumluluğudur.
func (r *FormRepository) Delete(ctx context.Context, form *models.Form, deletedByUserID uint) error {
	if form == nil || form.ID == 0 {
		return errors.New("silinecek form geçerli değil")
	}
	now := time.Now().UTC()
	updateData := map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID}
	result := getDB(ctx, r.db).Model(&models.Form{}).
		Where("id = ? AND deleted_at IS NULL", form.ID).
		Updates(updateData)
	if result.Error != nil {
		configslog.Log.Error("FormRepository.Delete: DB error", zap.Uint("id", form.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count toplam form sayısını döndürür.
func (r *FormRepository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx)
}

var _ IFormRepository = (*FormRepository)(nil)
