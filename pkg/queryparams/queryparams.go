package queryparams

// Sayfalama varsayılanları.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	DefaultSortBy  = "created_at"
	DefaultOrderBy = "desc"
)

// ListParams sayfalı listeleme isteklerinin ortak parametreleri.
// Fiber'ın QueryParser'ı ile doğrudan doldurulur.
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"`
	Name    string `query:"name"`   // Başlık/metin filtresi
	Status  string `query:"status"` // "true"/"false" filtreleri için
}

// DefaultListParams verilen sıralama alanıyla varsayılan parametreleri üretir.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		OrderBy: DefaultOrderBy,
	}
}

// Validate parametreleri geçerli aralıklara çeker.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.OrderBy != "asc" && p.OrderBy != "desc" {
		p.OrderBy = DefaultOrderBy
	}
}

// CalculateOffset geçerli sayfa için satır ofsetini döndürür.
func (p *ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

// CalculateTotalPages toplam kayıt sayısından sayfa sayısını hesaplar.
func CalculateTotalPages(totalCount int64, perPage int) int {
	if perPage <= 0 || totalCount <= 0 {
		return 0
	}
	pages := int(totalCount) / perPage
	if int(totalCount)%perPage != 0 {
		pages++
	}
	return pages
}

// PaginationMeta sayfalı sonuçların üst verisi.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	PerPage     int   `json:"per_page"`
}

// PaginatedResult sayfalı sonuç zarfı.
type PaginatedResult struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
