package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"
	"basvuru.link/repositories"

	"gorm.io/gorm"
)

// fakeTxManager transaction'ı atlayıp fonksiyonu doğrudan çalıştırır.
type fakeTxManager struct{}

func (fakeTxManager) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

// fakeStore tüm entity'leri bellekte tutan test deposu.
type fakeStore struct {
	users     map[uint]*models.User
	forms     map[uint]*models.Form
	sections  map[uint]*models.Section
	questions map[uint]*models.Question
	audits    []*models.AuditLog
	nextID    uint

	// failQuestionDelete belirli bir sorunun silinmesini verilen hatayla
	// başarısız kılar (kademeli silme hata yolu testleri için).
	failQuestionDelete map[uint]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:              make(map[uint]*models.User),
		forms:              make(map[uint]*models.Form),
		sections:           make(map[uint]*models.Section),
		questions:          make(map[uint]*models.Question),
		failQuestionDelete: make(map[uint]error),
	}
}

func (s *fakeStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(u models.User) *models.User {
	u.ID = s.id()
	s.users[u.ID] = &u
	return &u
}

// sortedQuestionIDs deterministik sıra için ID'ye göre sıralar.
func sortedQuestionIDs(m map[uint]*models.Question) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *fakeStore) subQuestionsOf(parentID uint) []models.Question {
	var subs []models.Question
	for _, id := range sortedQuestionIDs(s.questions) {
		q := s.questions[id]
		if q.ParentID != nil && *q.ParentID == parentID {
			subs = append(subs, *q)
		}
	}
	return subs
}

func (s *fakeStore) questionsOfForm(formID uint) []models.Question {
	var out []models.Question
	for _, id := range sortedQuestionIDs(s.questions) {
		q := s.questions[id]
		if q.FormID != nil && *q.FormID == formID {
			cp := *q
			cp.SubQuestions = s.subQuestionsOf(q.ID)
			out = append(out, cp)
		}
	}
	return out
}

func (s *fakeStore) questionsOfSection(sectionID uint) []models.Question {
	var out []models.Question
	for _, id := range sortedQuestionIDs(s.questions) {
		q := s.questions[id]
		if q.SectionID != nil && *q.SectionID == sectionID {
			cp := *q
			cp.SubQuestions = s.subQuestionsOf(q.ID)
			out = append(out, cp)
		}
	}
	return out
}

func (s *fakeStore) sectionsOfForm(formID uint) []models.Section {
	var out []models.Section
	ids := make([]uint, 0, len(s.sections))
	for id := range s.sections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		sec := s.sections[id]
		if sec.FormID == formID {
			cp := *sec
			cp.Questions = s.questionsOfSection(sec.ID)
			out = append(out, cp)
		}
	}
	return out
}

// --- IUserRepository ---

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// --- IFormRepository ---

type fakeFormRepo struct{ s *fakeStore }

func (r *fakeFormRepo) Create(ctx context.Context, form *models.Form) error {
	form.ID = r.s.id()
	cp := *form
	r.s.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	f, ok := r.s.forms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *f
	cp.Questions = r.s.questionsOfForm(f.ID)
	cp.Sections = r.s.sectionsOfForm(f.ID)
	return &cp, nil
}

func (r *fakeFormRepo) FindByType(ctx context.Context, formType string) (*models.Form, error) {
	for _, f := range r.s.forms {
		if f.Type == formType {
			return r.FindByID(ctx, f.ID)
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeFormRepo) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Form, int64, error) {
	ids := make([]uint, 0, len(r.s.forms))
	for id := range r.s.forms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	offset := params.CalculateOffset()
	if offset >= len(ids) {
		return nil, total, nil
	}
	end := offset + params.PerPage
	if end > len(ids) {
		end = len(ids)
	}
	var out []models.Form
	for _, id := range ids[offset:end] {
		out = append(out, *r.s.forms[id])
	}
	return out, total, nil
}

func (r *fakeFormRepo) Update(ctx context.Context, form *models.Form) error {
	if _, ok := r.s.forms[form.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *form
	cp.Questions = nil
	cp.Sections = nil
	r.s.forms[form.ID] = &cp
	return nil
}

func (r *fakeFormRepo) Delete(ctx context.Context, form *models.Form, deletedByUserID uint) error {
	if _, ok := r.s.forms[form.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.forms, form.ID)
	return nil
}

func (r *fakeFormRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.s.forms)), nil
}

// --- ISectionRepository ---

type fakeSectionRepo struct{ s *fakeStore }

func (r *fakeSectionRepo) Create(ctx context.Context, section *models.Section) error {
	section.ID = r.s.id()
	cp := *section
	r.s.sections[section.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) FindByID(ctx context.Context, id uint) (*models.Section, error) {
	sec, ok := r.s.sections[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *sec
	cp.Questions = r.s.questionsOfSection(sec.ID)
	return &cp, nil
}

func (r *fakeSectionRepo) FindByFormIDAndTitle(ctx context.Context, formID uint, title string) (*models.Section, error) {
	for _, sec := range r.s.sections {
		if sec.FormID == formID && sec.Title == title {
			cp := *sec
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeSectionRepo) FindAllByFormID(ctx context.Context, formID uint) ([]models.Section, error) {
	return r.s.sectionsOfForm(formID), nil
}

func (r *fakeSectionRepo) Update(ctx context.Context, section *models.Section) error {
	if _, ok := r.s.sections[section.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *section
	cp.Questions = nil
	r.s.sections[section.ID] = &cp
	return nil
}

func (r *fakeSectionRepo) Delete(ctx context.Context, section *models.Section, deletedByUserID uint) error {
	if _, ok := r.s.sections[section.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.sections, section.ID)
	return nil
}

func (r *fakeSectionRepo) CountByFormID(ctx context.Context, formID uint) (int64, error) {
	var count int64
	for _, sec := range r.s.sections {
		if sec.FormID == formID {
			count++
		}
	}
	return count, nil
}

// --- IQuestionRepository ---

type fakeQuestionRepo struct{ s *fakeStore }

// errBadContainer fake store'un tek-kapsayıcı kısıtını temsil eder.
var errBadContainer = errors.New("kapsayıcı referansı tutarsız")

func (r *fakeQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	if question.ContainerCount() != 1 {
		return errBadContainer
	}
	question.ID = r.s.id()
	cp := *question
	r.s.questions[question.ID] = &cp
	return nil
}

func (r *fakeQuestionRepo) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	q, ok := r.s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *q
	cp.SubQuestions = r.s.subQuestionsOf(q.ID)
	return &cp, nil
}

func (r *fakeQuestionRepo) FindTopLevelByText(ctx context.Context, questionText string) (*models.Question, error) {
	for _, q := range r.s.questions {
		if q.ParentID == nil && q.QuestionText == questionText {
			cp := *q
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeQuestionRepo) FindByParentID(ctx context.Context, parentID uint) ([]models.Question, error) {
	return r.s.subQuestionsOf(parentID), nil
}

func paginateQuestions(questions []models.Question, params queryparams.ListParams) ([]models.Question, int64) {
	total := int64(len(questions))
	offset := params.CalculateOffset()
	if offset >= len(questions) {
		return nil, total
	}
	end := offset + params.PerPage
	if end > len(questions) {
		end = len(questions)
	}
	return questions[offset:end], total
}

func (r *fakeQuestionRepo) FindAllByFormIDPaginated(ctx context.Context, formID uint, params queryparams.ListParams) ([]models.Question, int64, error) {
	out, total := paginateQuestions(r.s.questionsOfForm(formID), params)
	return out, total, nil
}

func (r *fakeQuestionRepo) FindAllBySectionIDPaginated(ctx context.Context, sectionID uint, params queryparams.ListParams) ([]models.Question, int64, error) {
	out, total := paginateQuestions(r.s.questionsOfSection(sectionID), params)
	return out, total, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	if _, ok := r.s.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *question
	cp.SubQuestions = nil
	r.s.questions[question.ID] = &cp
	return nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, question *models.Question, deletedByUserID uint) error {
	if err, ok := r.s.failQuestionDelete[question.ID]; ok {
		return err
	}
	if _, ok := r.s.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.questions, question.ID)
	return nil
}

// --- IAuditLogRepository ---

type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = r.s.id()
	cp := *entry
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r *fakeAuditRepo) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.AuditLog, int64, error) {
	var out []models.AuditLog
	for _, a := range r.s.audits {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

// --- Test ortamı ---

type testEnv struct {
	store       *fakeStore
	formSvc     *FormService
	sectionSvc  *SectionService
	questionSvc *QuestionService
	auditSvc    *AuditService

	admin    *models.User // sistem rolü, aktif
	viewer   *models.User // normal kullanıcı, aktif
	inactive *models.User // pasif kullanıcı
}

func newTestEnv() *testEnv {
	st := newFakeStore()
	userRepo := &fakeUserRepo{s: st}
	formRepo := &fakeFormRepo{s: st}
	sectionRepo := &fakeSectionRepo{s: st}
	questionRepo := &fakeQuestionRepo{s: st}
	auditRepo := &fakeAuditRepo{s: st}

	perm := &PermissionService{userRepo: userRepo}
	audit := &AuditService{repo: auditRepo, permissions: perm}
	tx := fakeTxManager{}

	env := &testEnv{
		store:    st,
		auditSvc: audit,
		formSvc: &FormService{
			repo: formRepo, sectionRepo: sectionRepo, questionRepo: questionRepo,
			permissions: perm, audit: audit, db: tx,
		},
		sectionSvc: &SectionService{
			repo: sectionRepo, formRepo: formRepo, questionRepo: questionRepo,
			permissions: perm, audit: audit, db: tx,
		},
		questionSvc: &QuestionService{
			repo: questionRepo, formRepo: formRepo, sectionRepo: sectionRepo,
			permissions: perm, audit: audit, db: tx,
		},
	}
	env.admin = st.addUser(models.User{Name: "Admin", Email: "admin@test.local", IsSystem: true, IsActive: true})
	env.viewer = st.addUser(models.User{Name: "Viewer", Email: "viewer@test.local", IsSystem: false, IsActive: true})
	env.inactive = st.addUser(models.User{Name: "Pasif", Email: "pasif@test.local", IsSystem: true, IsActive: false})
	return env
}
