package services

import (
	"context"
	"encoding/json"

	"basvuru.link/configs/configslog"
	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"
	"basvuru.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Denetim olay adları.
const (
	EventFormCreated = "FORM_CREATED"
	EventFormUpdated = "FORM_UPDATED"
	EventFormDeleted = "FORM_DELETED"
	EventFormViewed  = "FORM_VIEWED"

	EventSectionCreated = "SECTION_CREATED"
	EventSectionUpdated = "SECTION_UPDATED"
	EventSectionDeleted = "SECTION_DELETED"
	EventSectionViewed  = "SECTION_VIEWED"

	EventQuestionCreated = "QUESTION_CREATED"
	EventQuestionUpdated = "QUESTION_UPDATED"
	EventQuestionDeleted = "QUESTION_DELETED"
	EventQuestionViewed  = "QUESTION_VIEWED"
)

// IAuditService mutasyon ve görüntüleme işlemlerini kaydeder.
// Track fire-and-forget çalışır: hata loglanır, asla yukarı taşınmaz.
type IAuditService interface {
	Track(ctx context.Context, event string, actorID uint, message string, diff map[string]interface{})
	GetTrail(ctx context.Context, actorID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
}

// AuditService IAuditService arayüzünü uygular.
type AuditService struct {
	repo        repositories.IAuditLogRepository
	permissions IPermissionService
}

// NewAuditService yeni bir AuditService örneği oluşturur.
func NewAuditService() IAuditService {
	return &AuditService{
		repo:        repositories.NewAuditLogRepository(),
		permissions: NewPermissionService(),
	}
}

// Track bir denetim kaydı yazar.
func (s *AuditService) Track(ctx context.Context, event string, actorID uint, message string, diff map[string]interface{}) {
	entry := &models.AuditLog{
		EventID: uuid.NewString(),
		Event:   event,
		ActorID: actorID,
		Message: message,
	}
	if len(diff) > 0 {
		if b, err := json.Marshal(diff); err == nil {
			entry.Diff = string(b)
		}
	}
	// Servisler Track'i transaction dışında, işlem sonuçlandıktan sonra çağırır.
	if err := s.repo.Create(ctx, entry); err != nil {
		configslog.Log.Warn("Denetim kaydı yazılamadı",
			zap.String("event", event),
			zap.Uint("actor_id", actorID),
			zap.Error(err),
		)
	}
}

// GetTrail denetim kayıtlarını sayfalayarak döndürür. Kayıtlar aktör
// davranışını içerdiğinden yalnızca sistem rolü okuyabilir.
func (s *AuditService) GetTrail(ctx context.Context, actorID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	actor, err := s.permissions.Require(ctx, actorID, ActionView)
	if err != nil {
		return nil, err
	}
	if !actor.IsSystem {
		return nil, ErrPermissionDenied
	}
	params.Validate()

	entries, totalCount, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: entries,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
			TotalItems:  totalCount,
			PerPage:     params.PerPage,
		},
	}, nil
}

var _ IAuditService = (*AuditService)(nil)
