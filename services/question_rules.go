package services

import (
	"strings"

	"basvuru.link/models"
)

// validateQuestionShape soru türüne özgü yapısal kuralları uygular.
// Soru store'a kabul edilmeden önce çağrılır; güncellemede tekrar çalışmaz.
func validateQuestionShape(q *models.Question) error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return ErrQuestionTextRequired
	}

	switch q.Type {
	case models.QuestionTypeYesNo:
		// Seçenek gelirse yok sayılır.
		q.Options = nil
	case models.QuestionTypeFillInBlank:
		if len(q.Options) > 0 {
			return ErrQuestionOptionsForbidden
		}
	case models.QuestionTypeMultipleChoice, models.QuestionTypeSingleChoice:
		if len(q.Options) == 0 {
			return ErrQuestionOptionsMissing
		}
	case models.QuestionTypeGrouped:
		if len(q.Options) > 0 {
			return ErrQuestionOptionsForbidden
		}
	default:
		return ErrQuestionTypeInvalid
	}

	// Her soru ya her zaman gösterilir ya da ön koşullarını bildirir.
	if !q.Show && len(q.Prerequisites) == 0 {
		return ErrQuestionPrerequisitesMissing
	}

	if q.ValidationFactor == "" {
		q.ValidationFactor = models.ValidationFactorNone
	} else if !models.ValidValidationFactor(q.ValidationFactor) {
		return ErrValidationFactorInvalid
	}

	return nil
}
