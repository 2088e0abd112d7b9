package services

import (
	"context"
	"testing"

	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createFlatForm bölümsüz bir form hazırlar.
func createFlatForm(t *testing.T, env *testEnv) *models.Form {
	t.Helper()
	form, err := env.formSvc.CreateForm(context.Background(), env.admin.ID, models.Form{
		Type: models.FormTypeScreening, Title: "Ön Eleme",
	})
	require.NoError(t, err)
	return form
}

// createSectionedForm bölümlü bir form ve tek bölüm hazırlar.
func createSectionedForm(t *testing.T, env *testEnv) (*models.Form, *models.Section) {
	t.Helper()
	ctx := context.Background()
	form, err := env.formSvc.CreateForm(ctx, env.admin.ID, models.Form{
		Type: models.FormTypeLoanApplication, Title: "Kredi Başvurusu", HasSections: true,
	})
	require.NoError(t, err)
	section, err := env.sectionSvc.CreateSection(ctx, env.admin.ID, models.Section{
		FormID: form.ID, Title: "Kişisel Bilgiler", Number: 1,
	})
	require.NoError(t, err)
	return form, section
}

func TestCreateQuestion_DirectToForm(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	q, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Kredi kullandınız mı?",
		Type:         models.QuestionTypeYesNo,
		Show:         true,
		FormID:       &form.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, q.FormID)
	assert.Equal(t, form.ID, *q.FormID)
	assert.Nil(t, q.SectionID)
	assert.Nil(t, q.ParentID)

	// Soru formun listesinde tam bir kez görünür.
	loaded, err := env.formSvc.GetFormByID(ctx, env.admin.ID, form.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 1)
	assert.Equal(t, q.ID, loaded.Questions[0].ID)
}

func TestCreateQuestion_SectionedFormRejectsDirectAttach(t *testing.T) {
	env := newTestEnv()
	form, _ := createSectionedForm(t, env)

	_, err := env.questionSvc.CreateQuestion(context.Background(), env.admin.ID, models.Question{
		QuestionText: "Adınız?", Type: models.QuestionTypeFillInBlank, Show: true, FormID: &form.ID,
	})
	assert.ErrorIs(t, err, ErrFormSectioned)
}

func TestCreateQuestion_ContainerRequired(t *testing.T) {
	env := newTestEnv()

	_, err := env.questionSvc.CreateQuestion(context.Background(), env.admin.ID, models.Question{
		QuestionText: "Adınız?", Type: models.QuestionTypeFillInBlank, Show: true,
	})
	assert.ErrorIs(t, err, ErrContainerRequired)
}

func TestCreateQuestion_ParentTakesPrecedence(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, section := createSectionedForm(t, env)

	grouped, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hane bilgileri", Type: models.QuestionTypeGrouped, Show: true, SectionID: &section.ID,
	})
	require.NoError(t, err)

	// Hem bölüm hem üst soru verilirse üst soru kazanır.
	sub, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hane büyüklüğü",
		Type:         models.QuestionTypeFillInBlank,
		Show:         true,
		SectionID:    &section.ID,
		ParentID:     &grouped.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, sub.SectionID)
	assert.Nil(t, sub.FormID)
	require.NotNil(t, sub.ParentID)
	assert.Equal(t, grouped.ID, *sub.ParentID)

	// Alt soru bölümün soru listesine girmez, üst sorunun altına girer.
	loadedSection, err := env.sectionSvc.GetSectionByID(ctx, env.admin.ID, section.ID)
	require.NoError(t, err)
	require.Len(t, loadedSection.Questions, 1)
	assert.Equal(t, grouped.ID, loadedSection.Questions[0].ID)
	require.Len(t, loadedSection.Questions[0].SubQuestions, 1)
	assert.Equal(t, sub.ID, loadedSection.Questions[0].SubQuestions[0].ID)
}

func TestCreateQuestion_ParentMustBeGrouped(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	plain, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Kredi kullandınız mı?", Type: models.QuestionTypeYesNo, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)

	_, err = env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hangi bankadan?", Type: models.QuestionTypeFillInBlank, Show: true, ParentID: &plain.ID,
	})
	assert.ErrorIs(t, err, ErrParentQuestionNotGrouped)

	missing := uint(999)
	_, err = env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hangi bankadan?", Type: models.QuestionTypeFillInBlank, Show: true, ParentID: &missing,
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestCreateQuestion_TopLevelTextUnique(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	grouped, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Gelir bilgileri", Type: models.QuestionTypeGrouped, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)

	_, err = env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Gelir bilgileri", Type: models.QuestionTypeYesNo, Show: true, FormID: &form.ID,
	})
	assert.ErrorIs(t, err, ErrQuestionTextConflict)

	// Alt sorular tekillik kuralından muaftır.
	_, err = env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Gelir bilgileri", Type: models.QuestionTypeFillInBlank, Show: true, ParentID: &grouped.ID,
	})
	assert.NoError(t, err)
}

func TestCreateQuestion_ShapeRulesEnforced(t *testing.T) {
	env := newTestEnv()
	form := createFlatForm(t, env)

	_, err := env.questionSvc.CreateQuestion(context.Background(), env.admin.ID, models.Question{
		QuestionText: "Medeni durumunuz?", Type: models.QuestionTypeMultipleChoice, Show: true, FormID: &form.ID,
	})
	require.Error(t, err)

	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateQuestion_ContainerAndTypeImmutable(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	q, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Aylık geliriniz?", Type: models.QuestionTypeFillInBlank, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)

	other := uint(999)
	updated, err := env.questionSvc.UpdateQuestion(ctx, env.admin.ID, q.ID, models.Question{
		QuestionText:     "Aylık net geliriniz?",
		Type:             models.QuestionTypeYesNo, // yok sayılır
		FormID:           &other,                   // yok sayılır
		Show:             true,
		Required:         true,
		ValidationFactor: models.ValidationFactorNumeric,
		MeasurementUnit:  "TL",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aylık net geliriniz?", updated.QuestionText)
	assert.Equal(t, models.QuestionTypeFillInBlank, updated.Type)
	require.NotNil(t, updated.FormID)
	assert.Equal(t, form.ID, *updated.FormID)
	assert.True(t, updated.Required)
	assert.Equal(t, "TL", updated.MeasurementUnit)
}

func TestDeleteQuestion_ContextValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	q, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Kredi kullandınız mı?", Type: models.QuestionTypeYesNo, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)

	_, err = env.questionSvc.DeleteQuestion(ctx, env.admin.ID, q.ID, nil, nil)
	assert.ErrorIs(t, err, ErrContainerContextMissing)

	parent := uint(5)
	_, err = env.questionSvc.DeleteQuestion(ctx, env.admin.ID, q.ID, &form.ID, &parent)
	assert.ErrorIs(t, err, ErrContainerContextAmbiguous)

	wrongForm := uint(999)
	_, err = env.questionSvc.DeleteQuestion(ctx, env.admin.ID, q.ID, &wrongForm, nil)
	assert.ErrorIs(t, err, ErrContainerContextMismatch)

	_, err = env.questionSvc.DeleteQuestion(ctx, env.admin.ID, q.ID, nil, &parent)
	assert.ErrorIs(t, err, ErrContainerContextMismatch)
}

func TestDeleteQuestion_FormContextCoversSectionQuestions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form, section := createSectionedForm(t, env)

	q, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Adınız?", Type: models.QuestionTypeFillInBlank, Show: true, SectionID: &section.ID,
	})
	require.NoError(t, err)

	report, err := env.questionSvc.DeleteQuestion(ctx, env.admin.ID, q.ID, &form.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, &CascadeReport{Questions: 1}, report)
	assert.Empty(t, env.store.questions)
}

func TestDeleteQuestion_GroupedCascadesSubQuestions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	grouped, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hane bilgileri", Type: models.QuestionTypeGrouped, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)
	for _, text := range []string{"Hane büyüklüğü", "Çocuk sayısı"} {
		_, err = env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
			QuestionText: text, Type: models.QuestionTypeFillInBlank, Show: true, ParentID: &grouped.ID,
		})
		require.NoError(t, err)
	}

	report, err := env.questionSvc.DeleteQuestion(ctx, env.admin.ID, grouped.ID, &form.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, &CascadeReport{Questions: 1, SubQuestions: 2}, report)
	assert.Empty(t, env.store.questions)

	_, err = env.questionSvc.DeleteQuestion(ctx, env.admin.ID, grouped.ID, &form.ID, nil)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestDeleteQuestion_SubQuestionDetaches(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	grouped, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hane bilgileri", Type: models.QuestionTypeGrouped, Show: true, FormID: &form.ID,
	})
	require.NoError(t, err)
	sub, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
		QuestionText: "Hane büyüklüğü", Type: models.QuestionTypeFillInBlank, Show: true, ParentID: &grouped.ID,
	})
	require.NoError(t, err)

	report, err := env.questionSvc.DeleteQuestion(ctx, env.admin.ID, sub.ID, nil, &grouped.ID)
	require.NoError(t, err)
	assert.Equal(t, &CascadeReport{SubQuestions: 1}, report)

	// Üst soru yerinde, alt soru listesi boş.
	loaded, err := env.questionSvc.GetQuestionByID(ctx, env.admin.ID, grouped.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.SubQuestions)
}

func TestGetQuestionsForContainers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	form := createFlatForm(t, env)

	texts := []string{"Soru A", "Soru B", "Soru C"}
	for _, text := range texts {
		_, err := env.questionSvc.CreateQuestion(ctx, env.admin.ID, models.Question{
			QuestionText: text, Type: models.QuestionTypeYesNo, Show: true, FormID: &form.ID,
		})
		require.NoError(t, err)
	}

	result, err := env.questionSvc.GetQuestionsForForm(ctx, env.viewer.ID, form.ID, queryparams.ListParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Meta.TotalItems)
	assert.Equal(t, 2, result.Meta.TotalPages)

	questions, ok := result.Data.([]models.Question)
	require.True(t, ok)
	assert.Len(t, questions, 2)

	_, err = env.questionSvc.GetQuestionsForForm(ctx, env.viewer.ID, 999, queryparams.ListParams{})
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = env.questionSvc.GetQuestionsForSection(ctx, env.viewer.ID, 999, queryparams.ListParams{})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestCreateQuestion_PermissionDenied(t *testing.T) {
	env := newTestEnv()
	form := createFlatForm(t, env)

	_, err := env.questionSvc.CreateQuestion(context.Background(), env.viewer.ID, models.Question{
		QuestionText: "Adınız?", Type: models.QuestionTypeFillInBlank, Show: true, FormID: &form.ID,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
