package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

// mockRepository implements repositories.Repository with overridable function
// fields per sub-repository. Unset getters report gorm.ErrRecordNotFound,
// unset mutations succeed.
type mockRepository struct {
	training     *mockTrainingRepo
	chapter      *mockChapterRepo
	question     *mockQuestionRepo
	quiz         *mockQuizRepo
	quizQuestion *mockQuizQuestionRepo
	session      *mockSessionRepo
	response     *mockResponseRepo
	user         *mockUserRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		training:     &mockTrainingRepo{},
		chapter:      &mockChapterRepo{},
		question:     &mockQuestionRepo{},
		quiz:         &mockQuizRepo{},
		quizQuestion: &mockQuizQuestionRepo{},
		session:      &mockSessionRepo{},
		response:     &mockResponseRepo{},
		user:         &mockUserRepo{},
	}
}

func (m *mockRepository) Training() repositories.TrainingRepository         { return m.training }
func (m *mockRepository) Chapter() repositories.ChapterRepository           { return m.chapter }
func (m *mockRepository) Question() repositories.QuestionRepository         { return m.question }
func (m *mockRepository) Quiz() repositories.QuizRepository                 { return m.quiz }
func (m *mockRepository) QuizQuestion() repositories.QuizQuestionRepository { return m.quizQuestion }
func (m *mockRepository) Session() repositories.SessionRepository           { return m.session }
func (m *mockRepository) Response() repositories.ResponseRepository         { return m.response }
func (m *mockRepository) User() repositories.UserRepository                 { return m.user }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== TRAINING =====

type mockTrainingRepo struct {
	GetByIDFn func(id string) (*models.Training, error)
}

func (m *mockTrainingRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Training, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTrainingRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Training, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTrainingRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.Training, int64, error) {
	return nil, 0, nil
}
func (m *mockTrainingRepo) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Training, error) {
	return nil, nil
}

// ===== CHAPTER =====

type mockChapterRepo struct {
	GetByIDFn  func(id string) (*models.Chapter, error)
	GetByIDsFn func(ids []string) ([]*models.Chapter, error)
}

func (m *mockChapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Chapter, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockChapterRepo) GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string) ([]*models.Chapter, error) {
	return nil, nil
}
func (m *mockChapterRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Chapter, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ids)
	}
	return nil, nil
}

// ===== QUESTION =====

type mockQuestionRepo struct {
	CreateFn        func(question *models.Question) error
	GetByIDFn       func(id string) (*models.Question, error)
	GetByIDsFn      func(ids []string) ([]*models.Question, error)
	SampleFn        func(filters repositories.SampleFilters) ([]*models.Question, error)
	CountEligibleFn func(filters repositories.SampleFilters) (int64, error)
	IsUsedFn        func(id string) (bool, error)
}

func (m *mockQuestionRepo) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if m.CreateFn != nil {
		return m.CreateFn(question)
	}
	return nil
}
func (m *mockQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Question, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockQuestionRepo) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	return nil
}
func (m *mockQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error { return nil }
func (m *mockQuestionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	return nil
}
func (m *mockQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*models.Question, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ids)
	}
	return nil, nil
}
func (m *mockQuestionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	return nil, 0, nil
}
func (m *mockQuestionRepo) GetByChapter(ctx context.Context, tx *gorm.DB, chapterID string, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	return nil, 0, nil
}
func (m *mockQuestionRepo) Sample(ctx context.Context, tx *gorm.DB, filters repositories.SampleFilters) ([]*models.Question, error) {
	if m.SampleFn != nil {
		return m.SampleFn(filters)
	}
	return nil, nil
}
func (m *mockQuestionRepo) CountEligible(ctx context.Context, tx *gorm.DB, filters repositories.SampleFilters) (int64, error) {
	if m.CountEligibleFn != nil {
		return m.CountEligibleFn(filters)
	}
	return 0, nil
}
func (m *mockQuestionRepo) IsUsedInQuizzes(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	if m.IsUsedFn != nil {
		return m.IsUsedFn(id)
	}
	return false, nil
}

// ===== QUIZ =====

type mockQuizRepo struct {
	CreateFn               func(quiz *models.Quiz) error
	GetByIDFn              func(id string) (*models.Quiz, error)
	GetByIDWithQuestionsFn func(id string) (*models.Quiz, error)
	UpdateFn               func(quiz *models.Quiz) error
	UpdatePublishStateFn   func(id string, published bool) error
	ListFn                 func(filters repositories.QuizFilters) ([]*models.Quiz, int64, error)
}

func (m *mockQuizRepo) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if m.CreateFn != nil {
		return m.CreateFn(quiz)
	}
	return nil
}
func (m *mockQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockQuizRepo) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id string) (*models.Quiz, error) {
	if m.GetByIDWithQuestionsFn != nil {
		return m.GetByIDWithQuestionsFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockQuizRepo) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(quiz)
	}
	return nil
}
func (m *mockQuizRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error { return nil }
func (m *mockQuizRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	return nil, 0, nil
}
func (m *mockQuizRepo) GetByCreator(ctx context.Context, tx *gorm.DB, creatorID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	return nil, 0, nil
}
func (m *mockQuizRepo) GetByTraining(ctx context.Context, tx *gorm.DB, trainingID string, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	return nil, 0, nil
}
func (m *mockQuizRepo) UpdatePublishState(ctx context.Context, tx *gorm.DB, id string, published bool) error {
	if m.UpdatePublishStateFn != nil {
		return m.UpdatePublishStateFn(id, published)
	}
	return nil
}
func (m *mockQuizRepo) GetStats(ctx context.Context, tx *gorm.DB, id string) (*repositories.QuizStats, error) {
	return &repositories.QuizStats{}, nil
}

// ===== QUIZ QUESTION =====

type mockQuizQuestionRepo struct {
	CreateBatchFn func(rows []*models.QuizQuestion) error
	GetByQuizFn   func(quizID string) ([]*models.QuizQuestion, error)
}

func (m *mockQuizQuestionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*models.QuizQuestion) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(rows)
	}
	return nil
}
func (m *mockQuizQuestionRepo) GetByQuiz(ctx context.Context, tx *gorm.DB, quizID string) ([]*models.QuizQuestion, error) {
	if m.GetByQuizFn != nil {
		return m.GetByQuizFn(quizID)
	}
	return nil, nil
}
func (m *mockQuizQuestionRepo) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID string) error {
	return nil
}
func (m *mockQuizQuestionRepo) ExistsInQuiz(ctx context.Context, tx *gorm.DB, quizID, questionID string) (bool, error) {
	return false, nil
}

// ===== SESSION =====

type mockSessionRepo struct {
	CreateFn          func(session *models.QuizSession) error
	GetByIDFn         func(id string) (*models.QuizSession, error)
	GetWithRespFn     func(id string) (*models.QuizSession, error)
	ListFn            func(filters repositories.SessionFilters) ([]*models.QuizSession, int64, error)
	CountByIdentityFn func(quizID, identityID string) (int64, error)
	CompleteFn        func(session *models.QuizSession) (bool, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error {
	if m.CreateFn != nil {
		return m.CreateFn(session)
	}
	return nil
}
func (m *mockSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSessionRepo) GetByIDWithResponses(ctx context.Context, tx *gorm.DB, id string) (*models.QuizSession, error) {
	if m.GetWithRespFn != nil {
		return m.GetWithRespFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockSessionRepo) Update(ctx context.Context, tx *gorm.DB, session *models.QuizSession) error {
	return nil
}
func (m *mockSessionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error { return nil }
func (m *mockSessionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SessionFilters) ([]*models.QuizSession, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(filters)
	}
	return nil, 0, nil
}
func (m *mockSessionRepo) CountByIdentity(ctx context.Context, tx *gorm.DB, quizID, identityID string) (int64, error) {
	if m.CountByIdentityFn != nil {
		return m.CountByIdentityFn(quizID, identityID)
	}
	return 0, nil
}
func (m *mockSessionRepo) Complete(ctx context.Context, tx *gorm.DB, session *models.QuizSession) (bool, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(session)
	}
	return true, nil
}

// ===== RESPONSE =====

type mockResponseRepo struct {
	CreateBatchFn  func(responses []*models.SessionResponse) error
	GetBySessionFn func(sessionID string) ([]*models.SessionResponse, error)
	UpdateBatchFn  func(responses []*models.SessionResponse) error
}

func (m *mockResponseRepo) CreateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(responses)
	}
	return nil
}
func (m *mockResponseRepo) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]*models.SessionResponse, error) {
	if m.GetBySessionFn != nil {
		return m.GetBySessionFn(sessionID)
	}
	return nil, nil
}
func (m *mockResponseRepo) UpdateBatch(ctx context.Context, tx *gorm.DB, responses []*models.SessionResponse) error {
	if m.UpdateBatchFn != nil {
		return m.UpdateBatchFn(responses)
	}
	return nil
}
func (m *mockResponseRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	return nil
}

// ===== USER =====

type mockUserRepo struct {
	GetByIDFn func(id string) (*models.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return nil, nil
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error { return nil }
