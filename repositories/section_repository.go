package repositories

import (
	"context"
	"errors"
	"time"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ISectionRepository bölüm veritabanı işlemleri için arayüz.
type ISectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	FindByID(ctx context.Context, id uint) (*models.Section, error)
	FindByFormIDAndTitle(ctx context.Context, formID uint, title string) (*models.Section, error)
	FindAllByFormID(ctx context.Context, formID uint) ([]models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, section *models.Section, deletedByUserID uint) error
	CountByFormID(ctx context.Context, formID uint) (int64, error)
}

// SectionRepository ISectionRepository arayüzünü uygular.
type SectionRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Section]
}

// NewSectionRepository yeni bir SectionRepository örneği oluşturur.
func NewSectionRepository() ISectionRepository {
	return NewSectionRepositoryWithDB(configs.GetDB())
}

// NewSectionRepositoryWithDB verilen bağlantıyla repository oluşturur.
func NewSectionRepositoryWithDB(db *gorm.DB) ISectionRepository {
	base := NewBaseRepository[models.Section](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "number", "title"})
	return &SectionRepository{db: db, base: base}
}

// Create yeni bir bölüm kaydı oluşturur. FormID dolu olmalıdır.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section == nil || section.FormID == 0 {
		return errors.New("form bilgisi eksik bölüm oluşturulamaz")
	}
	return getDB(ctx, r.db).Create(section).Error
}

// FindByID bölümü sorularıyla birlikte bulur.
func (r *SectionRepository) FindByID(ctx context.Context, id uint) (*models.Section, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Bölüm ID")
	}
	ordered := func(db *gorm.DB) *gorm.DB { return db.Order("number") }
	var section models.Section
	err := getDB(ctx, r.db).
		Preload("Questions", ordered).
		Preload("Questions.SubQuestions", ordered).
		First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("SectionRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &section, nil
}

// FindByFormIDAndTitle başlık tekilliği ön kontrolü için kullanılır.
func (r *SectionRepository) FindByFormIDAndTitle(ctx context.Context, formID uint, title string) (*models.Section, error) {
	var section models.Section
	err := getDB(ctx, r.db).
		Where("form_id = ? AND title = ?", formID, title).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("SectionRepository.FindByFormIDAndTitle: DB error",
			zap.Uint("form_id", formID), zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return &section, nil
}

// FindAllByFormID bir formun bölümlerini numara sırasıyla döndürür.
func (r *SectionRepository) FindAllByFormID(ctx context.Context, formID uint) ([]models.Section, error) {
	if formID == 0 {
		return nil, errors.New("geçersiz Form ID")
	}
	ordered := func(db *gorm.DB) *gorm.DB { return db.Order("number") }
	var sections []models.Section
	err := getDB(ctx, r.db).
		Preload("Questions", ordered).
		Preload("Questions.SubQuestions", ordered).
		Where("form_id = ?", formID).
		Order("number").
		Find(&sections).Error
	if err != nil {
		configslog.Log.Error("SectionRepository.FindAllByFormID: DB error", zap.Uint("form_id", formID), zap.Error(err))
		return nil, err
	}
	return sections, nil
}

// Update bölüm kaydını günceller.
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	if section == nil || section.ID == 0 {
		return errors.New("güncellenecek bölüm geçerli değil")
	}
	return getDB(ctx, r.db).Save(section).Error
}

// Delete bölümü siler (soft delete). Soruların silinmesi servis katmanının
// sorumluluğudur.
func (r *SectionRepository) Delete(ctx context.Context, section *models.Section, deletedByUserID uint) error {
	if section == nil || section.ID == 0 {
		return errors.New("silinecek bölüm geçerli değil")
	}
	now := time.Now().UTC()
	updateData := map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID}
	result := getDB(ctx, r.db).Model(&models.Section{}).
		Where("id = ? AND deleted_at IS NULL", section.ID).
		Updates(updateData)
	if result.Error != nil {
		configslog.Log.Error("SectionRepository.Delete: DB error", zap.Uint("id", section.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByFormID bir formun bölüm sayısını döndürür.
func (r *SectionRepository) CountByFormID(ctx context.Context, formID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Section{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}

var _ ISectionRepository = (*SectionRepository)(nil)
