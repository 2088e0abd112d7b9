package models

import "github.com/lib/pq"

// Soru türleri.
const (
	QuestionTypeYesNo          = "YES_NO"
	QuestionTypeFillInBlank    = "FILL_IN_BLANK"
	QuestionTypeMultipleChoice = "MULTIPLE_CHOICE"
	QuestionTypeSingleChoice   = "SINGLE_CHOICE"
	QuestionTypeGrouped        = "GROUPED"
)

// Cevap doğrulama ölçütleri (FILL_IN_BLANK için).
const (
	ValidationFactorNone         = "NONE"
	ValidationFactorAlphanumeric = "ALPHANUMERIC"
	ValidationFactorNumeric      = "NUMERIC"
	ValidationFactorAlphabetic   = "ALPHABETIC"
)

// ContainerKind bir sorunun bağlı olduğu kapsayıcının türü.
type ContainerKind string

const (
	ContainerForm     ContainerKind = "FORM"
	ContainerSection  ContainerKind = "SECTION"
	ContainerQuestion ContainerKind = "PARENT_QUESTION"
)

// Question tek bir soru tanımıdır. FormID / SectionID / ParentID alanlarından
// tam olarak biri dolu olmalıdır: her soru tek bir kapsayıcıya aittir.
// GROUPED türündeki sorular alt sorularını ParentID üzerinden toplar.
type Question struct {
	BaseModel
	QuestionText     string         `gorm:"type:text;not null" json:"question_text"`
	Type             string         `gorm:"type:varchar(20);not null;index" json:"type"`
	Number           string         `gorm:"type:varchar(20)" json:"number"` // Noktalı sıra, örn. "2.2"
	Required         bool           `gorm:"default:false" json:"required"`
	Show             bool           `gorm:"default:true" json:"show"`
	Prerequisites    pq.StringArray `gorm:"type:text[]" json:"prerequisites"` // Show = false ise zorunlu
	ValidationFactor string         `gorm:"type:varchar(20);not null;default:'NONE'" json:"validation_factor"`
	MeasurementUnit  string         `gorm:"type:varchar(50)" json:"measurement_unit"`
	Options          pq.StringArray `gorm:"type:text[]" json:"options"`
	Values           pq.StringArray `gorm:"type:text[]" json:"values"` // Cevap değerleri; tanım servisi kullanmaz
	Remark           string         `gorm:"type:text" json:"remark"`

	FormID    *uint `gorm:"index" json:"form,omitempty"`
	SectionID *uint `gorm:"index" json:"section,omitempty"`
	ParentID  *uint `gorm:"index" json:"parent_question,omitempty"`

	// GORM İlişkileri
	SubQuestions []Question `gorm:"foreignKey:ParentID" json:"sub_questions"`
}

// ValidQuestionType bilinen bir soru türü mü kontrol eder.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeYesNo, QuestionTypeFillInBlank, QuestionTypeMultipleChoice,
		QuestionTypeSingleChoice, QuestionTypeGrouped:
		return true
	}
	return false
}

// ValidValidationFactor bilinen bir doğrulama ölçütü mü kontrol eder.
func ValidValidationFactor(f string) bool {
	switch f {
	case ValidationFactorNone, ValidationFactorAlphanumeric,
		ValidationFactorNumeric, ValidationFactorAlphabetic:
		return true
	}
	return false
}

// IsSubQuestion soru bir üst soruya mı bağlı.
func (q *Question) IsSubQuestion() bool {
	return q.ParentID != nil
}

// ContainerCount dolu kapsayıcı referansı sayısını döndürür. Tutarlı bir
// kayıtta her zaman 1'dir.
func (q *Question) ContainerCount() int {
	n := 0
	if q.FormID != nil {
		n++
	}
	if q.SectionID != nil {
		n++
	}
	if q.ParentID != nil {
		n++
	}
	return n
}

// Container sorunun kapsayıcı türünü ve ID'sini döndürür.
// Hiçbir kapsayıcı yoksa ok = false döner.
func (q *Question) Container() (kind ContainerKind, id uint, ok bool) {
	switch {
	case q.ParentID != nil:
		return ContainerQuestion, *q.ParentID, true
	case q.SectionID != nil:
		return ContainerSection, *q.SectionID, true
	case q.FormID != nil:
		return ContainerForm, *q.FormID, true
	}
	return "", 0, false
}
