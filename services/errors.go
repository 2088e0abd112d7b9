package services

import "fmt"

// Servis hataları kategorilere ayrılmış tipli string hatalardır. HTTP katmanı
// kategoriye bakarak durum kodunu seçer; mesajlar ihlal edilen kuralı söyler.

// ValidationError istek gövdesi veya soru türü kuralları ihlalleri.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError referans verilen Form/Bölüm/Soru kaydının olmaması.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

// ConflictError tekillik ihlalleri (form türü, bölüm başlığı, soru metni).
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

// PermissionDeniedError aktörün işlem için yetkisiz olması.
type PermissionDeniedError string

func (e PermissionDeniedError) Error() string { return string(e) }

const (
	ErrPermissionDenied PermissionDeniedError = "bu işlem için yetkiniz yok"

	ErrFormNotFound      NotFoundError   = "form bulunamadı"
	ErrFormTypeConflict  ConflictError   = "bu türde bir form zaten mevcut"
	ErrFormTitleRequired ValidationError = "form başlığı zorunludur"
	ErrFormTypeInvalid   ValidationError = "geçersiz form türü"
	ErrFormLayoutInvalid ValidationError = "geçersiz form yerleşimi"
	ErrFormNotSectioned  ValidationError = "bu form bölüm desteklemiyor"
	ErrFormSectioned     ValidationError = "bölümlü forma doğrudan soru eklenemez"

	ErrSectionNotFound      NotFoundError   = "bölüm bulunamadı"
	ErrSectionTitleConflict ConflictError   = "bu başlıkta bir bölüm zaten mevcut"
	ErrSectionTitleRequired ValidationError = "bölüm başlığı zorunludur"

	ErrQuestionNotFound             NotFoundError   = "soru bulunamadı"
	ErrQuestionTextRequired         ValidationError = "soru metni zorunludur"
	ErrQuestionTextConflict         ConflictError   = "bu metinde bir soru zaten mevcut"
	ErrQuestionTypeInvalid          ValidationError = "geçersiz soru türü"
	ErrQuestionOptionsMissing       ValidationError = "soru seçenekleri boş olamaz"
	ErrQuestionOptionsForbidden     ValidationError = "bu soru türü seçenek içeremez"
	ErrQuestionPrerequisitesMissing ValidationError = "gizli soru için ön koşul listesi zorunludur"
	ErrValidationFactorInvalid      ValidationError = "geçersiz doğrulama ölçütü"

	ErrParentQuestionNotGrouped  ValidationError = "alt soru yalnızca GROUPED türünde bir soruya eklenebilir"
	ErrContainerRequired         ValidationError = "soru için kapsayıcı (form, bölüm veya üst soru) zorunludur"
	ErrContainerContextMissing   ValidationError = "silme işlemi için form veya üst soru bağlamı zorunludur"
	ErrContainerContextAmbiguous ValidationError = "form ve üst soru bağlamı aynı anda verilemez"
	ErrContainerContextMismatch  ValidationError = "verilen bağlam bu soruya ait değil"
)

// CascadeReport kademeli silmenin hangi çocukları kapsadığını raporlar.
type CascadeReport struct {
	Sections     int `json:"sections"`
	Questions    int `json:"questions"`
	SubQuestions int `json:"sub_questions"`
}

// PartialCascadeFailure kademeli silmenin yarıda kalmasını raporlar.
// Report, başarısız adıma kadar silinmek üzere işlenen çocuk sayılarını
// içerir; transaction geri alındıysa kayıtlar yerinde kalmıştır ama rapor
// kademenin nerede durduğunu söyler.
type PartialCascadeFailure struct {
	Step   string        `json:"step"`
	Report CascadeReport `json:"report"`
	Err    error         `json:"-"`
}

func (e *PartialCascadeFailure) Error() string {
	return fmt.Sprintf("kademeli silme yarıda kaldı (%s): %v", e.Step, e.Err)
}

func (e *PartialCascadeFailure) Unwrap() error { return e.Err }
