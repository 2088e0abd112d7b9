package services

import (
	"context"
	"errors"
	"fmt"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/models"
	"basvuru.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ISectionService bölüm işlemleri için arayüz.
type ISectionService interface {
	CreateSection(ctx context.Context, actorID uint, data models.Section) (*models.Section, error)
	GetSectionByID(ctx context.Context, actorID uint, id uint) (*models.Section, error)
	GetSectionsForForm(ctx context.Context, actorID uint, formID uint) ([]models.Section, error)
	UpdateSection(ctx context.Context, actorID uint, id uint, data models.Section) (*models.Section, error)
	DeleteSection(ctx context.Context, actorID uint, id uint) (*CascadeReport, error)
}

// SectionService ISectionService arayüzünü uygular. Bölüm silme, bölümün
// sorularını (ve alt sorularını) bölümden önce siler.
type SectionService struct {
	repo         repositories.ISectionRepository
	formRepo     repositories.IFormRepository
	questionRepo repositories.IQuestionRepository
	permissions  IPermissionService
	audit        IAuditService
	db           txManager
}

// NewSectionService yeni bir SectionService örneği oluşturur.
func NewSectionService() ISectionService {
	return &SectionService{
		repo:         repositories.NewSectionRepository(),
		formRepo:     repositories.NewFormRepository(),
		questionRepo: repositories.NewQuestionRepository(),
		permissions:  NewPermissionService(),
		audit:        NewAuditService(),
		db:           configs.GetDB(),
	}
}

// CreateSection yeni bir bölüm oluşturur. Form bölümlü olmalıdır; başlık
// tekilliği atomik olmayan bir ön kontroldür.
func (s *SectionService) CreateSection(ctx context.Context, actorID uint, data models.Section) (*models.Section, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionCreate); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrSectionTitleRequired
	}

	form, err := s.formRepo.FindByID(ctx, data.FormID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	// Çağıran kontrol etmiş olsa da burada yeniden doğrulanır.
	if !form.HasSections {
		return nil, ErrFormNotSectioned
	}

	if _, err := s.repo.FindByFormIDAndTitle(ctx, form.ID, data.Title); err == nil {
		return nil, ErrSectionTitleConflict
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	data.Questions = nil
	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(contextWithTx(ctxUser, tx), &data)
	})
	if txErr != nil {
		configslog.Log.Error("CreateSection başarısız", zap.Uint("form_id", data.FormID), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventSectionCreated, actorID,
		fmt.Sprintf("Bölüm oluşturuldu: %s", data.Title),
		map[string]interface{}{"section_id": data.ID, "form_id": data.FormID})
	configslog.SLog.Infof("Bölüm oluşturuldu: ID %d, Form: %d (Aktör: %d)", data.ID, data.FormID, actorID)
	return &data, nil
}

// GetSectionByID bölümü sorularıyla birlikte getirir.
func (s *SectionService) GetSectionByID(ctx context.Context, actorID uint, id uint) (*models.Section, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	s.audit.Track(ctx, EventSectionViewed, actorID,
		fmt.Sprintf("Bölüm görüntülendi: %s", section.Title), nil)
	return section, nil
}

// GetSectionsForForm formun bölümlerini numara sırasıyla getirir.
func (s *SectionService) GetSectionsForForm(ctx context.Context, actorID uint, formID uint) ([]models.Section, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return s.repo.FindAllByFormID(ctx, formID)
}

// UpdateSection bölümün başlığını ve sırasını günceller.
func (s *SectionService) UpdateSection(ctx context.Context, actorID uint, id uint, data models.Section) (*models.Section, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionUpdate); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrSectionTitleRequired
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	if data.Title != existing.Title {
		if _, err := s.repo.FindByFormIDAndTitle(ctx, existing.FormID, data.Title); err == nil {
			return nil, ErrSectionTitleConflict
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	existing.Title = data.Title
	existing.Number = data.Number

	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(contextWithTx(ctxUser, tx), existing)
	})
	if txErr != nil {
		configslog.Log.Error("UpdateSection başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventSectionUpdated, actorID,
		fmt.Sprintf("Bölüm güncellendi: %s", existing.Title),
		map[string]interface{}{"section_id": existing.ID})
	return existing, nil
}

// DeleteSection bölümü ve sorularını kademeli siler: önce sorular (alt
// sorularıyla), sonra bölüm kaydı. Formun bölüm listesinden düşmesi
// yapısaldır; ayrıca bir liste güncellemesi gerekmez.
func (s *SectionService) DeleteSection(ctx context.Context, actorID uint, id uint) (*CascadeReport, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionDelete); err != nil {
		return nil, err
	}

	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	report := &CascadeReport{}
	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithTx(ctxUser, tx)
		for i := range section.Questions {
			q := &section.Questions[i]
			if err := deleteQuestionTree(txCtx, s.questionRepo, q, actorID, report, false); err != nil {
				return &PartialCascadeFailure{Step: fmt.Sprintf("soru %d", q.ID), Report: *report, Err: err}
			}
		}
		if err := s.repo.Delete(txCtx, section, actorID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSectionNotFound
			}
			return &PartialCascadeFailure{Step: "bölüm", Report: *report, Err: err}
		}
		report.Sections++
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteSection başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventSectionDeleted, actorID,
		fmt.Sprintf("Bölüm silindi: %s", section.Title),
		map[string]interface{}{
			"section_id":    section.ID,
			"questions":     report.Questions,
			"sub_questions": report.SubQuestions,
		})
	configslog.SLog.Infof("Bölüm silindi: ID %d (%d soru, %d alt soru) (Aktör: %d)",
		section.ID, report.Questions, report.SubQuestions, actorID)
	return report, nil
}

var _ ISectionService = (*SectionService)(nil)
