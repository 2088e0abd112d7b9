package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"
	"basvuru.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// txManager çoklu kayıt yazan işlemleri tek transaction altında toplar.
// *gorm.DB bu arayüzü sağlar; testlerde sahte bir yönetici kullanılır.
type txManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// contextWithUserID BaseModel hook'ları için aktör ID'sini context'e koyar.
func contextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, models.ContextUserIDKey, userID)
}

// contextWithTx repository'lerin transaction içinde çalışmasını sağlar.
func contextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, repositories.TxKey, tx)
}

// IFormService form işlemleri için arayüz.
type IFormService interface {
	CreateForm(ctx context.Context, actorID uint, data models.Form) (*models.Form, error)
	GetFormByID(ctx context.Context, actorID uint, id uint) (*models.Form, error)
	GetFormByType(ctx context.Context, actorID uint, formType string) (*models.Form, error)
	GetFormsPaginated(ctx context.Context, actorID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateForm(ctx context.Context, actorID uint, id uint, data models.Form) (*models.Form, error)
	DeleteForm(ctx context.Context, actorID uint, id uint) (*CascadeReport, error)
	GetFormCount(ctx context.Context, actorID uint) (int64, error)
}

// FormService IFormService arayüzünü uygular. Form silme, formun sahip olduğu
// tüm Bölüm/Soru/Alt Soru grafını çocuklardan başlayarak kademeli siler.
type FormService struct {
	repo         repositories.IFormRepository
	sectionRepo  repositories.ISectionRepository
	questionRepo repositories.IQuestionRepository
	permissions  IPermissionService
	audit        IAuditService
	db           txManager
}

// NewFormService yeni bir FormService örneği oluşturur.
func NewFormService() IFormService {
	return &FormService{
		repo:         repositories.NewFormRepository(),
		sectionRepo:  repositories.NewSectionRepository(),
		questionRepo: repositories.NewQuestionRepository(),
		permissions:  NewPermissionService(),
		audit:        NewAuditService(),
		db:           configs.GetDB(),
	}
}

// validateFormInput temel form alanlarını doğrular ve varsayılanları uygular.
func validateFormInput(data *models.Form) error {
	if data.Title == "" {
		return ErrFormTitleRequired
	}
	if !models.ValidFormType(data.Type) {
		return ErrFormTypeInvalid
	}
	if data.Layout == "" {
		data.Layout = models.FormLayoutTwoColumns
	} else if !models.ValidFormLayout(data.Layout) {
		return ErrFormLayoutInvalid
	}
	return nil
}

// CreateForm yeni bir form oluşturur. Tür başına en fazla bir form bulunur;
// tekillik önce kontrol edilir, unique index son savunmadır.
func (s *FormService) CreateForm(ctx context.Context, actorID uint, data models.Form) (*models.Form, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionCreate); err != nil {
		return nil, err
	}
	if err := validateFormInput(&data); err != nil {
		return nil, err
	}

	// Tür tekilliği ön kontrolü.
	if _, err := s.repo.FindByType(ctx, data.Type); err == nil {
		return nil, ErrFormTypeConflict
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if len(data.Signatures) == 0 {
		data.Signatures = models.DefaultSignatures(data.Type)
	}
	data.CreatorUserID = actorID
	data.Questions = nil
	data.Sections = nil

	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithTx(ctxUser, tx)
		if err := s.repo.Create(txCtx, &data); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrFormTypeConflict
			}
			return err
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("CreateForm başarısız", zap.String("type", data.Type), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventFormCreated, actorID,
		fmt.Sprintf("Form oluşturuldu: %s (%s)", data.Title, data.Type),
		map[string]interface{}{"form_id": data.ID, "type": data.Type})
	configslog.SLog.Infof("Form oluşturuldu: ID %d, Tür: %s (Aktör: %d)", data.ID, data.Type, actorID)
	return &data, nil
}

// GetFormByID formu çocuk grafıyla birlikte getirir.
func (s *FormService) GetFormByID(ctx context.Context, actorID uint, id uint) (*models.Form, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	s.audit.Track(ctx, EventFormViewed, actorID,
		fmt.Sprintf("Form görüntülendi: %s", form.Title), nil)
	return form, nil
}

// GetFormByType verilen türdeki formu getirir.
func (s *FormService) GetFormByType(ctx context.Context, actorID uint, formType string) (*models.Form, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	if !models.ValidFormType(formType) {
		return nil, ErrFormTypeInvalid
	}
	form, err := s.repo.FindByType(ctx, formType)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	s.audit.Track(ctx, EventFormViewed, actorID,
		fmt.Sprintf("Form görüntülendi: %s", form.Title), nil)
	return form, nil
}

// GetFormsPaginated formları sayfalayarak getirir.
func (s *FormService) GetFormsPaginated(ctx context.Context, actorID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	params.Validate()

	forms, totalCount, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: forms,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
			TotalItems:  totalCount,
			PerPage:     params.PerPage,
		},
	}, nil
}

// UpdateForm formun tanım alanlarını günceller. Tür ve bölümlülük
// değiştirilemez; çocuk listeleri soru/bölüm işlemleriyle yönetilir.
func (s *FormService) UpdateForm(ctx context.Context, actorID uint, id uint, data models.Form) (*models.Form, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionUpdate); err != nil {
		return nil, err
	}
	if data.Title == "" {
		return nil, ErrFormTitleRequired
	}
	if data.Layout != "" && !models.ValidFormLayout(data.Layout) {
		return nil, ErrFormLayoutInvalid
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	existing.Title = data.Title
	existing.Subtitle = data.Subtitle
	existing.Purpose = data.Purpose
	existing.Disclaimer = data.Disclaimer
	if data.Layout != "" {
		existing.Layout = data.Layout
	}
	if len(data.Signatures) > 0 {
		existing.Signatures = data.Signatures
	}

	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(contextWithTx(ctxUser, tx), existing)
	})
	if txErr != nil {
		configslog.Log.Error("UpdateForm başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventFormUpdated, actorID,
		fmt.Sprintf("Form güncellendi: %s", existing.Title),
		map[string]interface{}{"form_id": existing.ID})
	return existing, nil
}

// DeleteForm formu ve sahip olduğu tüm çocukları kademeli siler.
// Sıra: doğrudan sorular (alt sorularıyla), bölümler (sorularıyla), form.
// Çocuklar her zaman ebeveynden önce silinir; adımlar tek transaction içinde
// teker teker yürütülür ve rapor edilir.
func (s *FormService) DeleteForm(ctx context.Context, actorID uint, id uint) (*CascadeReport, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionDelete); err != nil {
		return nil, err
	}

	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	report := &CascadeReport{}
	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithTx(ctxUser, tx)

		for i := range form.Questions {
			q := &form.Questions[i]
			if err := deleteQuestionTree(txCtx, s.questionRepo, q, actorID, report, false); err != nil {
				return &PartialCascadeFailure{Step: fmt.Sprintf("soru %d", q.ID), Report: *report, Err: err}
			}
		}
		for i := range form.Sections {
			sec := &form.Sections[i]
			for j := range sec.Questions {
				q := &sec.Questions[j]
				if err := deleteQuestionTree(txCtx, s.questionRepo, q, actorID, report, false); err != nil {
					return &PartialCascadeFailure{Step: fmt.Sprintf("bölüm %d / soru %d", sec.ID, q.ID), Report: *report, Err: err}
				}
			}
			if err := s.sectionRepo.Delete(txCtx, sec, actorID); err != nil {
				return &PartialCascadeFailure{Step: fmt.Sprintf("bölüm %d", sec.ID), Report: *report, Err: err}
			}
			report.Sections++
		}
		if err := s.repo.Delete(txCtx, form, actorID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return &PartialCascadeFailure{Step: "form", Report: *report, Err: err}
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteForm başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventFormDeleted, actorID,
		fmt.Sprintf("Form silindi: %s (%s)", form.Title, form.Type),
		map[string]interface{}{
			"form_id":       form.ID,
			"sections":      report.Sections,
			"questions":     report.Questions,
			"sub_questions": report.SubQuestions,
		})
	configslog.SLog.Infof("Form silindi: ID %d (%d bölüm, %d soru, %d alt soru) (Aktör: %d)",
		form.ID, report.Sections, report.Questions, report.SubQuestions, actorID)
	return report, nil
}

// GetFormCount toplam form sayısını döndürür.
func (s *FormService) GetFormCount(ctx context.Context, actorID uint) (int64, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx)
}

var _ IFormService = (*FormService)(nil)
