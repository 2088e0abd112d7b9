package services

import (
	"testing"

	"basvuru.link/models"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQuestionShape_TextRequired(t *testing.T) {
	q := &models.Question{QuestionText: "   ", Type: models.QuestionTypeYesNo, Show: true}
	assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionTextRequired)
}

func TestValidateQuestionShape_InvalidType(t *testing.T) {
	q := &models.Question{QuestionText: "Yaşınız?", Type: "DATE_PICKER", Show: true}
	assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionTypeInvalid)
}

func TestValidateQuestionShape_YesNoStripsOptions(t *testing.T) {
	q := &models.Question{
		QuestionText: "Kredi kullandınız mı?",
		Type:         models.QuestionTypeYesNo,
		Show:         true,
		Options:      pq.StringArray{"Evet", "Hayır"},
	}
	require.NoError(t, validateQuestionShape(q))
	assert.Empty(t, q.Options)
}

func TestValidateQuestionShape_FillInBlankForbidsOptions(t *testing.T) {
	q := &models.Question{
		QuestionText: "Aylık geliriniz?",
		Type:         models.QuestionTypeFillInBlank,
		Show:         true,
		Options:      pq.StringArray{"0-1000"},
	}
	assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionOptionsForbidden)
}

func TestValidateQuestionShape_GroupedForbidsOptions(t *testing.T) {
	q := &models.Question{
		QuestionText: "Hane bilgileri",
		Type:         models.QuestionTypeGrouped,
		Show:         true,
		Options:      pq.StringArray{"A"},
	}
	assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionOptionsForbidden)
}

func TestValidateQuestionShape_ChoiceTypesRequireOptions(t *testing.T) {
	for _, typ := range []string{models.QuestionTypeMultipleChoice, models.QuestionTypeSingleChoice} {
		q := &models.Question{QuestionText: "Medeni durumunuz?", Type: typ, Show: true}
		assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionOptionsMissing, typ)

		q.Options = pq.StringArray{"Evli", "Bekar"}
		assert.NoError(t, validateQuestionShape(q), typ)
	}
}

func TestValidateQuestionShape_HiddenRequiresPrerequisites(t *testing.T) {
	q := &models.Question{
		QuestionText: "Eş bilgileri",
		Type:         models.QuestionTypeFillInBlank,
		Show:         false,
	}
	assert.ErrorIs(t, validateQuestionShape(q), ErrQuestionPrerequisitesMissing)

	q.Prerequisites = pq.StringArray{"1.2=Evet"}
	assert.NoError(t, validateQuestionShape(q))
}

func TestValidateQuestionShape_ValidationFactor(t *testing.T) {
	q := &models.Question{QuestionText: "TC kimlik no", Type: models.QuestionTypeFillInBlank, Show: true}
	require.NoError(t, validateQuestionShape(q))
	assert.Equal(t, models.ValidationFactorNone, q.ValidationFactor)

	q.ValidationFactor = "REGEX"
	assert.ErrorIs(t, validateQuestionShape(q), ErrValidationFactorInvalid)

	q.ValidationFactor = models.ValidationFactorNumeric
	assert.NoError(t, validateQuestionShape(q))
}
