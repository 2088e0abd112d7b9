package models

import "github.com/lib/pq"

// Form türleri. Her türden en fazla bir form bulunabilir.
const (
	FormTypeScreening        = "SCREENING"
	FormTypeLoanApplication  = "LOAN_APPLICATION"
	FormTypeGroupApplication = "GROUP_APPLICATION"
	FormTypeACAT             = "ACAT"
)

// Form yerleşim seçenekleri.
const (
	FormLayoutTwoColumns   = "TWO_COLUMNS"
	FormLayoutThreeColumns = "THREE_COLUMNS"
)

// Form anket/başvuru tanımının ana kaydıdır.
// HasSections false ise sorular doğrudan forma, true ise bölümlere bağlanır.
type Form struct {
	BaseModel
	Type          string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"type"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle      string         `gorm:"type:varchar(255)" json:"subtitle"`
	Purpose       string         `gorm:"type:text" json:"purpose"`
	Layout        string         `gorm:"type:varchar(20);not null;default:'TWO_COLUMNS'" json:"layout"`
	HasSections   bool           `gorm:"default:false" json:"has_sections"`
	Disclaimer    string         `gorm:"type:text" json:"disclaimer"`
	Signatures    pq.StringArray `gorm:"type:text[]" json:"signatures"`
	CreatorUserID uint           `gorm:"index;not null" json:"created_by_user"`

	// GORM İlişkileri
	Creator   User       `gorm:"foreignKey:CreatorUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Questions []Question `gorm:"foreignKey:FormID" json:"questions"` // Yalnızca doğrudan bağlı sorular
	Sections  []Section  `gorm:"foreignKey:FormID" json:"sections"`
}

// ValidFormType bilinen bir form türü mü kontrol eder.
func ValidFormType(t string) bool {
	switch t {
	case FormTypeScreening, FormTypeLoanApplication, FormTypeGroupApplication, FormTypeACAT:
		return true
	}
	return false
}

// ValidFormLayout bilinen bir yerleşim mi kontrol eder.
func ValidFormLayout(l string) bool {
	return l == FormLayoutTwoColumns || l == FormLayoutThreeColumns
}

// DefaultSignatures form türüne göre varsayılan imza sırasını döndürür.
// İstek imza listesi vermediğinde oluşturma sırasında uygulanır.
func DefaultSignatures(formType string) []string {
	switch formType {
	case FormTypeScreening:
		return []string{"APPLICANT"}
	case FormTypeLoanApplication:
		return []string{"APPLICANT", "LOAN_OFFICER"}
	case FormTypeGroupApplication:
		return []string{"CHAIRPERSON", "SECRETARY", "TREASURER"}
	case FormTypeACAT:
		return []string{"APPLICANT", "LOAN_OFFICER", "BRANCH_MANAGER"}
	}
	return nil
}
