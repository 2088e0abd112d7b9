package services

import (
	"context"
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

// IQuestionService soru işlemleri için arayüz.
type IQuestionService interface {
	CreateQuestion(ctx context.Context, actorID uint, data models.Question) (*models.Question, error)
	GetQuestionByID(ctx context.Context, actorID uint, id uint) (*models.Question, error)
	GetQuestionsForForm(ctx context.Context, actorID uint, formID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	GetQuestionsForSection(ctx context.Context, actorID uint, sectionID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateQuestion(ctx context.Context, actorID uint, id uint, data models.Question) (*models.Question, error)
	DeleteQuestion(ctx context.Context, actorID uint, id uint, formID *uint, parentQuestionID *uint) (*CascadeReport, error)
}

// QuestionService IQuestionService arayüzünü uygular. Soru tam olarak bir
// kapsayıcıya (form, bölüm veya üst soru) bağlanır; kapsayıcı çözümleme
// önceliği üst soru > bölüm > form'dur.
type QuestionService struct {
	repo        repositories.IQuestionRepository
	formRepo    repositories.IFormRepository
	sectionRepo repositories.ISectionRepository
	permissions IPermissionService
	audit       IAuditService
	db          txManager
}

// NewQuestionService yeni bir QuestionService örneği oluşturur.
func NewQuestionService() IQuestionService {
	return &QuestionService{
		repo:        repositories.NewQuestionRepository(),
		formRepo:    repositories.NewFormRepository(),
		sectionRepo: repositories.NewSectionRepository(),
		permissions: NewPermissionService(),
		audit:       NewAuditService(),
		db:          configs.GetDB(),
	}
}

// resolveContainer istekteki referanslardan tek kapsayıcıyı belirler.
// Öncelik: üst soru > bölüm > form. Alt sorular hiçbir zaman doğrudan bölüm
// veya form listesine girmez; üst soru referansı diğerlerini geçersiz kılar.
func (s *QuestionService) resolveContainer(ctx context.Context, data *models.Question) error {
	switch {
	case data.ParentID != nil:
		parent, err := s.repo.FindByID(ctx, *data.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}
		if parent.Type != models.QuestionTypeGrouped {
			return ErrParentQuestionNotGrouped
		}
		data.SectionID = nil
		data.FormID = nil
	case data.SectionID != nil:
		if _, err := s.sectionRepo.FindByID(ctx, *data.SectionID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		data.FormID = nil
	case data.FormID != nil:
		form, err := s.formRepo.FindByID(ctx, *data.FormID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		// Bölümlü formda sorular bölümlere bağlanır.
		if form.HasSections {
			return ErrFormSectioned
		}
	default:
		return ErrContainerRequired
	}
	return nil
}

// CreateQuestion yeni bir soru oluşturur: önce tür kuralları, sonra kapsayıcı
// çözümleme, sonra üst seviye metin tekilliği, en son kayıt.
func (s *QuestionService) CreateQuestion(ctx context.Context, actorID uint, data models.Question) (*models.Question, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionCreate); err != nil {
		return nil, err
	}
	if err := validateQuestionShape(&data); err != nil {
		return nil, err
	}
	if err := s.resolveContainer(ctx, &data); err != nil {
		return nil, err
	}

	// Metin tekilliği yalnızca üst seviye sorular için; alt sorular muaf.
	if data.ParentID == nil {
		if _, err := s.repo.FindTopLevelByText(ctx, data.QuestionText); err == nil {
			return nil, ErrQuestionTextConflict
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	data.SubQuestions = nil
	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Create(contextWithTx(ctxUser, tx), &data)
	})
	if txErr != nil {
		configslog.Log.Error("CreateQuestion başarısız", zap.String("type", data.Type), zap.Error(txErr))
		return nil, txErr
	}

	kind, containerID, _ := data.Container()
	s.audit.Track(ctxUser, EventQuestionCreated, actorID,
		fmt.Sprintf("Soru oluşturuldu: %s (%s)", data.QuestionText, data.Type),
		map[string]interface{}{"question_id": data.ID, "container": string(kind), "container_id": containerID})
	configslog.SLog.Infof("Soru oluşturuldu: ID %d, Tür: %s, Kapsayıcı: %s %d (Aktör: %d)",
		data.ID, data.Type, kind, containerID, actorID)
	return &data, nil
}

// GetQuestionByID soruyu alt sorularıyla birlikte getirir.
func (s *QuestionService) GetQuestionByID(ctx context.Context, actorID uint, id uint) (*models.Question, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	s.audit.Track(ctx, EventQuestionViewed, actorID,
		fmt.Sprintf("Soru görüntülendi: %s", question.QuestionText), nil)
	return question, nil
}

// GetQuestionsForForm doğrudan forma bağlı soruları sayfalayarak getirir.
func (s *QuestionService) GetQuestionsForForm(ctx context.Context, actorID uint, formID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	if _, err := s.formRepo.FindByID(ctx, formID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	params.Validate()
	questions, totalCount, err := s.repo.FindAllByFormIDPaginated(ctx, formID, params)
	if err != nil {
		return nil, err
	}
	return paginatedQuestions(questions, totalCount, params), nil
}

// GetQuestionsForSection bir bölümün sorularını sayfalayarak getirir.
func (s *QuestionService) GetQuestionsForSection(ctx context.Context, actorID uint, sectionID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionView); err != nil {
		return nil, err
	}
	if _, err := s.sectionRepo.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	params.Validate()
	questions, totalCount, err := s.repo.FindAllBySectionIDPaginated(ctx, sectionID, params)
	if err != nil {
		return nil, err
	}
	return paginatedQuestions(questions, totalCount, params), nil
}

func paginatedQuestions(questions []models.Question, totalCount int64, params queryparams.ListParams) *queryparams.PaginatedResult {
	return &queryparams.PaginatedResult{
		Data: questions,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
			TotalItems:  totalCount,
			PerPage:     params.PerPage,
		},
	}
}

// UpdateQuestion sorunun tanım alanlarını günceller. Kapsayıcı ve tür
// değişmez; tür kuralları oluşturma anında doğrulanmıştır, burada tekrar
// çalıştırılmaz.
func (s *QuestionService) UpdateQuestion(ctx context.Context, actorID uint, id uint, data models.Question) (*models.Question, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionUpdate); err != nil {
		return nil, err
	}
	if data.QuestionText == "" {
		return nil, ErrQuestionTextRequired
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	existing.QuestionText = data.QuestionText
	existing.Number = data.Number
	existing.Required = data.Required
	existing.Show = data.Show
	existing.Prerequisites = data.Prerequisites
	existing.ValidationFactor = data.ValidationFactor
	existing.MeasurementUnit = data.MeasurementUnit
	existing.Options = data.Options
	existing.Remark = data.Remark

	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		return s.repo.Update(contextWithTx(ctxUser, tx), existing)
	})
	if txErr != nil {
		configslog.Log.Error("UpdateQuestion başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventQuestionUpdated, actorID,
		fmt.Sprintf("Soru güncellendi: %s", existing.QuestionText),
		map[string]interface{}{"question_id": existing.ID})
	return existing, nil
}

// DeleteQuestion soruyu ve (varsa) alt sorularını siler. Çağıran, form veya
// üst soru bağlamından tam olarak birini vermek zorundadır; ikisi birden veya
// hiçbiri kullanım hatasıdır.
func (s *QuestionService) DeleteQuestion(ctx context.Context, actorID uint, id uint, formID *uint, parentQuestionID *uint) (*CascadeReport, error) {
	if _, err := s.permissions.Require(ctx, actorID, ActionDelete); err != nil {
		return nil, err
	}
	if formID == nil && parentQuestionID == nil {
		return nil, ErrContainerContextMissing
	}
	if formID != nil && parentQuestionID != nil {
		return nil, ErrContainerContextAmbiguous
	}

	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	if err := s.checkContainerContext(ctx, question, formID, parentQuestionID); err != nil {
		return nil, err
	}

	report := &CascadeReport{}
	ctxUser := contextWithUserID(ctx, actorID)
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithTx(ctxUser, tx)
		if err := deleteQuestionTree(txCtx, s.repo, question, actorID, report, question.IsSubQuestion()); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionNotFound
			}
			return &PartialCascadeFailure{Step: fmt.Sprintf("soru %d", question.ID), Report: *report, Err: err}
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteQuestion başarısız", zap.Uint("id", id), zap.Error(txErr))
		return nil, txErr
	}

	s.audit.Track(ctxUser, EventQuestionDeleted, actorID,
		fmt.Sprintf("Soru silindi: %s", question.QuestionText),
		map[string]interface{}{"question_id": question.ID, "sub_questions": report.SubQuestions})
	return report, nil
}

// checkContainerContext verilen bağlamın soruya gerçekten ait olduğunu
// doğrular. Form bağlamı, doğrudan bağlı soruları da bölüm üzerinden bağlı
// soruları da kapsar.
func (s *QuestionService) checkContainerContext(ctx context.Context, question *models.Question, formID *uint, parentQuestionID *uint) error {
	if parentQuestionID != nil {
		if question.ParentID == nil || *question.ParentID != *parentQuestionID {
			return ErrContainerContextMismatch
		}
		return nil
	}
	if question.FormID != nil {
		if *question.FormID != *formID {
			return ErrContainerContextMismatch
		}
		return nil
	}
	if question.SectionID != nil {
		section, err := s.sectionRepo.FindByID(ctx, *question.SectionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrContainerContextMismatch
			}
			return err
		}
		if section.FormID != *formID {
			return ErrContainerContextMismatch
		}
		return nil
	}
	return ErrContainerContextMismatch
}

// deleteQuestionTree soruyu alt sorularından başlayarak siler. Alt sorular
// her seviyede store'dan yeniden okunur; önceden yüklenmiş listelere
// güvenilmez. asSub, kaydın rapora alt soru olarak yazılmasını belirler.
func deleteQuestionTree(ctx context.Context, repo repositories.IQuestionRepository, q *models.Question, actorID uint, report *CascadeReport, asSub bool) error {
	subs, err := repo.FindByParentID(ctx, q.ID)
	if err != nil {
		return err
	}
	for i := range subs {
		if err := deleteQuestionTree(ctx, repo, &subs[i], actorID, report, true); err != nil {
			return err
		}
	}
	if err := repo.Delete(ctx, q, actorID); err != nil {
		return err
	}
	if asSub {
		report.SubQuestions++
	} else {
		report.Questions++
	}
	return nil
}

var _ IQuestionService = (*QuestionService)(nil)
