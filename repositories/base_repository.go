package repositories

import (
	"context"
	"errors"

	"basvuru.link/pkg/queryparams"

	"gorm.io/gorm"
)

// ErrNotFound aranan kaydın bulunamadığını belirtir. Servis katmanı bunu
// kendi tipli hatasına çevirir.
var ErrNotFound = errors.New("kayıt bulunamadı")

type txKeyType struct{}

// TxKey servis katmanının transaction handle'ını context üzerinden
// repository'lere taşımak için kullandığı anahtar.
var TxKey = txKeyType{}

// getDB context'te transaction varsa onu, yoksa verilen bağlantıyı döndürür.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(TxKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// IBaseRepository tüm entity repository'lerinin paylaştığı temel işlemler.
type IBaseRepository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]T, int64, error)
	Count(ctx context.Context) (int64, error)
	SetAllowedSortColumns(columns []string)
}

// BaseRepository IBaseRepository'nin generik GORM implementasyonu.
type BaseRepository[T any] struct {
	db          *gorm.DB
	allowedSort map[string]bool
}

// NewBaseRepository yeni bir BaseRepository örneği oluşturur.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedSort: map[string]bool{"id": true, "created_at": true}}
}

// SetAllowedSortColumns sıralamaya izin verilen sütunları belirler.
func (r *BaseRepository[T]) SetAllowedSortColumns(columns []string) {
	r.allowedSort = make(map[string]bool, len(columns))
	for _, c := range columns {
		r.allowedSort[c] = true
	}
}

// orderClause izin verilen sütunlara göre güvenli bir ORDER BY üretir.
func (r *BaseRepository[T]) orderClause(params queryparams.ListParams) string {
	sortBy := params.SortBy
	if !r.allowedSort[sortBy] {
		sortBy = queryparams.DefaultSortBy
	}
	orderBy := params.OrderBy
	if orderBy != "asc" && orderBy != "desc" {
		orderBy = queryparams.DefaultOrderBy
	}
	return sortBy + " " + orderBy
}

// FindByID verilen ID'ye sahip kaydı bulur.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := getDB(ctx, r.db).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAllPaginated kayıtları sayfalayarak bulur.
func (r *BaseRepository[T]) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]T, int64, error) {
	var entities []T
	var totalCount int64
	db := getDB(ctx, r.db)

	var model T
	query := db.Model(&model)
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if totalCount == 0 {
		return entities, 0, nil
	}

	err := query.
		Order(r.orderClause(params)).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&entities).Error
	if err != nil {
		return nil, totalCount, err
	}
	return entities, totalCount, nil
}

// Count toplam kayıt sayısını döndürür.
func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	var model T
	err := getDB(ctx, r.db).Model(&model).Count(&count).Error
	return count, err
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)
