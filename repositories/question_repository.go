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

// IQuestionRepository soru veritabanı işlemleri için arayüz.
type IQuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	FindTopLevelByText(ctx context.Context, questionText string) (*models.Question, error)
	FindByParentID(ctx context.Context, parentID uint) ([]models.Question, error)
	FindAllByFormIDPaginated(ctx context.Context, formID uint, params queryparams.ListParams) ([]models.Question, int64, error)
	FindAllBySectionIDPaginated(ctx context.Context, sectionID uint, params queryparams.ListParams) ([]models.Question, int64, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, question *models.Question, deletedByUserID uint) error
}

// QuestionRepository IQuestionRepository arayüzünü uygular.
type QuestionRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Question]
}

// NewQuestionRepository yeni bir QuestionRepository örneği oluşturur.
func NewQuestionRepository() IQuestionRepository {
	return NewQuestionRepositoryWithDB(configs.GetDB())
}

// NewQuestionRepositoryWithDB verilen bağlantıyla repository oluşturur.
func NewQuestionRepositoryWithDB(db *gorm.DB) IQuestionRepository {
	base := NewBaseRepository[models.Question](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "number", "type"})
	return &QuestionRepository{db: db, base: base}
}

// Create yeni bir soru kaydı oluşturur. Kapsayıcı sütunlarından tam olarak
// biri dolu olmalıdır.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question == nil {
		return errors.New("oluşturulacak soru geçerli değil")
	}
	if question.ContainerCount() != 1 {
		return errors.New("soru tam olarak bir kapsayıcıya bağlı olmalıdır")
	}
	return getDB(ctx, r.db).Create(question).Error
}

// FindByID soruyu alt sorularıyla birlikte bulur.
func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Soru ID")
	}
	ordered := func(db *gorm.DB) *gorm.DB { return db.Order("number") }
	var question models.Question
	err := getDB(ctx, r.db).Preload("SubQuestions", ordered).First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("QuestionRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &question, nil
}

// FindTopLevelByText üst seviye (alt soru olmayan) sorular arasında metin
// tekilliği ön kontrolü yapar.
func (r *QuestionRepository) FindTopLevelByText(ctx context.Context, questionText string) (*models.Question, error) {
	var question models.Question
	err := getDB(ctx, r.db).
		Where("question_text = ? AND parent_id IS NULL", questionText).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("QuestionRepository.FindTopLevelByText: DB error", zap.Error(err))
		return nil, err
	}
	return &question, nil
}

// FindByParentID bir sorunun alt sorularını numara sırasıyla döndürür.
func (r *QuestionRepository) FindByParentID(ctx context.Context, parentID uint) ([]models.Question, error) {
	if parentID == 0 {
		return nil, errors.New("geçersiz üst soru ID")
	}
	var questions []models.Question
	err := getDB(ctx, r.db).
		Where("parent_id = ?", parentID).
		Order("number").
		Find(&questions).Error
	if err != nil {
		configslog.Log.Error("QuestionRepository.FindByParentID: DB error", zap.Uint("parent_id", parentID), zap.Error(err))
		return nil, err
	}
	return questions, nil
}

// findByContainerPaginated ortak sayfalı listeleme.
func (r *QuestionRepository) findByContainerPaginated(ctx context.Context, column string, id uint, params queryparams.ListParams) ([]models.Question, int64, error) {
	var questions []models.Question
	var totalCount int64
	db := getDB(ctx, r.db)

	query := db.Model(&models.Question{}).Where(column+" = ?", id)
	if params.Name != "" {
		query = query.Where("question_text ILIKE ?", "%"+params.Name+"%")
	}

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("QuestionRepository.Count (Paginated): DB error", zap.String("column", column), zap.Uint("id", id), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return questions, 0, nil
	}

	ordered := func(db *gorm.DB) *gorm.DB { return db.Order("number") }
	err := query.
		Preload("SubQuestions", ordered).
		Order(r.base.orderClause(params)).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&questions).Error
	if err != nil {
		configslog.Log.Error("QuestionRepository.Find (Paginated): DB error", zap.String("column", column), zap.Uint("id", id), zap.Error(err))
		return nil, totalCount, err
	}
	return questions, totalCount, nil
}

// FindAllByFormIDPaginated doğrudan forma bağlı soruları sayfalayarak bulur.
func (r *QuestionRepository) FindAllByFormIDPaginated(ctx context.Context, formID uint, params queryparams.ListParams) ([]models.Question, int64, error) {
	if formID == 0 {
		return nil, 0, errors.New("geçersiz Form ID")
	}
	return r.findByContainerPaginated(ctx, "form_id", formID, params)
}

// FindAllBySectionIDPaginated bir bölümün sorularını sayfalayarak bulur.
func (r *QuestionRepository) FindAllBySectionIDPaginated(ctx context.Context, sectionID uint, params queryparams.ListParams) ([]models.Question, int64, error) {
	if sectionID == 0 {
		return nil, 0, errors.New("geçersiz Bölüm ID")
	}
	return r.findByContainerPaginated(ctx, "section_id", sectionID, params)
}

// Update soru kaydını günceller. Kapsayıcı sütunları burada değişmez.
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	if question == nil || question.ID == 0 {
		return errors.New("güncellenecek soru geçerli değil")
	}
	return getDB(ctx, r.db).Save(question).Error
}

// Delete soruyu siler (soft delete). Alt soruların silinmesi servis
// katmanındaki kademeli silmenin sorumluluğudur.
func (r *QuestionRepository) Delete(ctx context.Context, question *models.Question, deletedByUserID uint) error {
	if question == nil || question.ID == 0 {
		return errors.New("silinecek soru geçerli değil")
	}
	now := time.Now().UTC()
	updateData := map[string]interface{}{"deleted_at": now, "deleted_by": &deletedByUserID}
	result := getDB(ctx, r.db).Model(&models.Question{}).
		Where("id = ? AND deleted_at IS NULL", question.ID).
		Updates(updateData)
	if result.Error != nil {
		configslog.Log.Error("QuestionRepository.Delete: DB error", zap.Uint("id", question.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IQuestionRepository = (*QuestionRepository)(nil)
