package services

import (
	"context"
	"errors"

	"basvuru.link/models"
	"basvuru.link/repositories"
)

// PermissionAction yetki kontrolüne tabi işlem türleri.
type PermissionAction string

const (
	ActionCreate PermissionAction = "CREATE"
	ActionUpdate PermissionAction = "UPDATE"
	ActionView   PermissionAction = "VIEW"
	ActionDelete PermissionAction = "DELETE"
)

// IPermissionService aktör + işlem bazlı yetki kontrolü.
type IPermissionService interface {
	IsPermitted(ctx context.Context, actorID uint, action PermissionAction) (bool, error)
	Require(ctx context.Context, actorID uint, action PermissionAction) (*models.User, error)
}

// PermissionService IPermissionService arayüzünü uygular.
// Görüntüleme aktif her kullanıcıya, mutasyonlar sistem rolüne açıktır.
type PermissionService struct {
	userRepo repositories.IUserRepository
}

// NewPermissionService yeni bir PermissionService örneği oluşturur.
func NewPermissionService() IPermissionService {
	return &PermissionService{userRepo: repositories.NewUserRepository()}
}

// IsPermitted aktörün verilen işlemi yapıp yapamayacağını döndürür.
func (s *PermissionService) IsPermitted(ctx context.Context, actorID uint, action PermissionAction) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !actor.IsActive {
		return false, nil
	}
	switch action {
	case ActionView:
		return true, nil
	case ActionCreate, ActionUpdate, ActionDelete:
		return actor.IsSystem, nil
	}
	return false, nil
}

// Require yetki yoksa ErrPermissionDenied döndürür, varsa aktörü verir.
func (s *PermissionService) Require(ctx context.Context, actorID uint, action PermissionAction) (*models.User, error) {
	ok, err := s.IsPermitted(ctx, actorID, action)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, ErrPermissionDenied
	}
	return actor, nil
}

var _ IPermissionService = (*PermissionService)(nil)
