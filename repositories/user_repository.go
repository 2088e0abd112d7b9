package repositories

import (
	"context"
	"errors"

	"basvuru.link/configs"
	"basvuru.link/configs/configslog"
	"basvuru.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository kullanıcı veritabanı işlemleri için arayüz.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserRepository IUserRepository arayüzünü uygular.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository yeni bir UserRepository örneği oluşturur.
func NewUserRepository() IUserRepository {
	return NewUserRepositoryWithDB(configs.GetDB())
}

// NewUserRepositoryWithDB verilen bağlantıyla repository oluşturur.
func NewUserRepositoryWithDB(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db}
}

// Create yeni bir kullanıcı kaydı oluşturur.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil || user.Email == "" {
		return errors.New("oluşturulacak kullanıcı geçerli değil")
	}
	return getDB(ctx, r.db).Create(user).Error
}

// FindByID verilen ID'ye sahip kullanıcıyı bulur.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Kullanıcı ID")
	}
	var user models.User
	err := getDB(ctx, r.db).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("UserRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindByEmail e-posta ile kullanıcıyı bulur.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, errors.New("geçersiz e-posta")
	}
	var user models.User
	err := getDB(ctx, r.db).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("UserRepository.FindByEmail: DB error", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

var _ IUserRepository = (*UserRepository)(nil)
