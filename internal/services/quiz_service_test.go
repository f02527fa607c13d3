package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

func newTestQuizService(repo *mockRepository, generalTrainingID string) QuizService {
	return NewQuizService(repo, nil, testLogger(), validator.New(), generalTrainingID)
}

func selectCreateRequest(trainingID string, quizType models.QuizType, questionIDs ...string) *CreateQuizRequest {
	req := &CreateQuizRequest{
		TrainingID:  trainingID,
		Title:       models.LocalizedText{"en": "Chapter checkpoint"},
		QuizType:    quizType,
		GlobalScore: 20,
		Method:      "select",
	}
	for _, id := range questionIDs {
		req.Questions = append(req.Questions, validator.QuizQuestionRequest{QuestionID: id})
	}
	return req
}

func TestQuizService_Create(t *testing.T) {
	ctx := context.Background()
	trainingID := uuid.NewString()

	newRepo := func(questions ...*models.Question) *mockRepository {
		repo := newMockRepository()
		repo.training.GetByIDFn = func(id string) (*models.Training, error) {
			return &models.Training{ID: id}, nil
		}
		repo.question.GetByIDsFn = func(ids []string) ([]*models.Question, error) {
			return questions, nil
		}
		return repo
	}

	t.Run("select builds manifest in request order", func(t *testing.T) {
		q1 := trueFalseQuestion(t, uuid.NewString())
		q2 := trueFalseQuestion(t, uuid.NewString())
		q2.DefaultPointValue = 3

		repo := newRepo(q1, q2)
		var manifest []*models.QuizQuestion
		repo.quizQuestion.CreateBatchFn = func(rows []*models.QuizQuestion) error {
			manifest = rows
			return nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}

		req := selectCreateRequest(trainingID, models.QuizFormative, q1.ID, q2.ID)
		override := 5.0
		req.Questions[0].PointValue = &override

		quiz, err := service.Create(ctx, req, teacher)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if len(manifest) != 2 {
			t.Fatalf("expected 2 manifest rows, got %d", len(manifest))
		}
		if manifest[0].QuestionID != q1.ID || manifest[0].Position != 1 || manifest[0].PointValue != 5 {
			t.Errorf("row 1 wrong: %+v", manifest[0])
		}
		// No override falls back to the question's default point value.
		if manifest[1].QuestionID != q2.ID || manifest[1].Position != 2 || manifest[1].PointValue != 3 {
			t.Errorf("row 2 wrong: %+v", manifest[1])
		}
		if quiz.IsPublished {
			t.Error("new quizzes must start unpublished")
		}
		if quiz.MaxPossibleScore() != 8 {
			t.Errorf("expected max score 8, got %v", quiz.MaxPossibleScore())
		}
	})

	t.Run("select rejects unknown question ids", func(t *testing.T) {
		q1 := trueFalseQuestion(t, uuid.NewString())
		repo := newRepo(q1)

		service := newTestQuizService(repo, uuid.NewString())
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}

		req := selectCreateRequest(trainingID, models.QuizFormative, q1.ID, uuid.NewString())
		_, err := service.Create(ctx, req, teacher)
		if !errors.Is(err, ErrQuestionNotFound) {
			t.Fatalf("expected ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("generate fails when the pool is too small", func(t *testing.T) {
		chapterID := uuid.NewString()
		repo := newRepo()
		repo.chapter.GetByIDsFn = func(ids []string) ([]*models.Chapter, error) {
			return []*models.Chapter{{ID: chapterID}}, nil
		}
		repo.question.CountEligibleFn = func(filters repositories.SampleFilters) (int64, error) {
			return 3, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}

		req := &CreateQuizRequest{
			TrainingID:    trainingID,
			Title:         models.LocalizedText{"en": "Generated"},
			QuizType:      models.QuizFormative,
			GlobalScore:   20,
			Method:        "generate",
			ChapterIDs:    []string{chapterID},
			QuestionCount: 10,
		}
		_, err := service.Create(ctx, req, teacher)
		if !errors.Is(err, ErrInsufficientQuestions) {
			t.Fatalf("expected ErrInsufficientQuestions, got %v", err)
		}
	})

	t.Run("generate samples the requested count", func(t *testing.T) {
		chapterID := uuid.NewString()
		pool := []*models.Question{
			trueFalseQuestion(t, uuid.NewString()),
			trueFalseQuestion(t, uuid.NewString()),
			trueFalseQuestion(t, uuid.NewString()),
		}

		repo := newRepo()
		repo.chapter.GetByIDsFn = func(ids []string) ([]*models.Chapter, error) {
			return []*models.Chapter{{ID: chapterID}}, nil
		}
		repo.question.CountEligibleFn = func(filters repositories.SampleFilters) (int64, error) {
			return int64(len(pool)), nil
		}
		repo.question.SampleFn = func(filters repositories.SampleFilters) ([]*models.Question, error) {
			return pool[:filters.Count], nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}

		pointValue := 2.0
		req := &CreateQuizRequest{
			TrainingID:    trainingID,
			Title:         models.LocalizedText{"en": "Generated"},
			QuizType:      models.QuizFormative,
			GlobalScore:   20,
			Method:        "generate",
			ChapterIDs:    []string{chapterID},
			QuestionCount: 3,
			PointValue:    &pointValue,
		}
		quiz, err := service.Create(ctx, req, teacher)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if len(quiz.Questions) != 3 {
			t.Fatalf("expected 3 manifest rows, got %d", len(quiz.Questions))
		}
		if quiz.MaxPossibleScore() != 6 {
			t.Errorf("expected max score 6, got %v", quiz.MaxPossibleScore())
		}
	})
}

func TestQuizService_RolePolicy(t *testing.T) {
	ctx := context.Background()
	trainingID := uuid.NewString()

	newService := func(t *testing.T) QuizService {
		repo := newMockRepository()
		repo.training.GetByIDFn = func(id string) (*models.Training, error) {
			return &models.Training{ID: id}, nil
		}
		repo.question.GetByIDsFn = func(ids []string) ([]*models.Question, error) {
			out := make([]*models.Question, 0, len(ids))
			for _, id := range ids {
				out = append(out, trueFalseQuestion(t, id))
			}
			return out, nil
		}
		return newTestQuizService(repo, uuid.NewString())
	}

	cases := []struct {
		name     string
		role     models.UserRole
		quizType models.QuizType
		allowed  bool
	}{
		{"student creates revision", models.RoleStudent, models.QuizRevision, true},
		{"student cannot create formative", models.RoleStudent, models.QuizFormative, false},
		{"student cannot create summative", models.RoleStudent, models.QuizSummative, false},
		{"teacher creates formative", models.RoleTeacher, models.QuizFormative, true},
		{"teacher cannot create revision", models.RoleTeacher, models.QuizRevision, false},
		{"manager creates anything", models.RoleManager, models.QuizRevision, true},
		{"admin creates anything", models.RoleAdmin, models.QuizSummative, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := newService(t)
			actor := Actor{UserID: uuid.NewString(), Role: tc.role}

			req := selectCreateRequest(trainingID, tc.quizType, uuid.NewString())
			_, err := service.Create(ctx, req, actor)
			if tc.allowed && err != nil {
				t.Fatalf("expected role %s to create %s quiz, got %v", tc.role, tc.quizType, err)
			}
			if !tc.allowed && !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden for role %s on %s quiz, got %v", tc.role, tc.quizType, err)
			}
		})
	}
}

func TestQuizService_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("revision quizzes are never publishable", func(t *testing.T) {
		creator := Actor{UserID: uuid.NewString(), Role: models.RoleStudent}
		quiz, _ := fourQuestionQuiz(t, creator.UserID)
		quiz.QuizType = models.QuizRevision
		quiz.IsPublished = false

		repo := newMockRepository()
		repo.quiz.GetByIDWithQuestionsFn = func(id string) (*models.Quiz, error) {
			return quiz, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		err := service.Publish(ctx, quiz.ID, creator)
		if !errors.Is(err, ErrRevisionNotPublishable) {
			t.Fatalf("expected ErrRevisionNotPublishable, got %v", err)
		}
	})

	t.Run("creator publishes a playable quiz", func(t *testing.T) {
		creator := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}
		quiz, _ := fourQuestionQuiz(t, creator.UserID)
		quiz.IsPublished = false

		var published *bool
		repo := newMockRepository()
		repo.quiz.GetByIDWithQuestionsFn = func(id string) (*models.Quiz, error) {
			return quiz, nil
		}
		repo.quiz.UpdatePublishStateFn = func(id string, state bool) error {
			published = &state
			return nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		if err := service.Publish(ctx, quiz.ID, creator); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
		if published == nil || !*published {
			t.Error("expected publish state update to true")
		}
	})

	t.Run("non-creator cannot publish", func(t *testing.T) {
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.IsPublished = false

		repo := newMockRepository()
		repo.quiz.GetByIDWithQuestionsFn = func(id string) (*models.Quiz, error) {
			return quiz, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		other := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}
		err := service.Publish(ctx, quiz.ID, other)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("empty quiz is not publishable", func(t *testing.T) {
		creator := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}
		quiz, _ := fourQuestionQuiz(t, creator.UserID)
		quiz.Questions = nil
		quiz.IsPublished = false

		repo := newMockRepository()
		repo.quiz.GetByIDWithQuestionsFn = func(id string) (*models.Quiz, error) {
			return quiz, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		err := service.Publish(ctx, quiz.ID, creator)
		if !errors.Is(err, ErrInvalidQuiz) {
			t.Fatalf("expected ErrInvalidQuiz, got %v", err)
		}
	})
}

func TestQuizService_Visibility(t *testing.T) {
	ctx := context.Background()
	generalTrainingID := uuid.NewString()

	newRepo := func(quiz *models.Quiz) *mockRepository {
		repo := newMockRepository()
		repo.quiz.GetByIDWithQuestionsFn = func(id string) (*models.Quiz, error) {
			return quiz, nil
		}
		return repo
	}

	t.Run("general training quizzes are visible to any student", func(t *testing.T) {
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.TrainingID = generalTrainingID
		quiz.IsPublic = false

		service := newTestQuizService(newRepo(quiz), generalTrainingID)
		resp, err := service.GetByID(ctx, quiz.ID, studentActor())
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if resp.Quiz.ID != quiz.ID {
			t.Errorf("expected quiz %s, got %s", quiz.ID, resp.Quiz.ID)
		}
	})

	t.Run("non-public training quizzes stay hidden from unaffiliated students", func(t *testing.T) {
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.IsPublic = false

		service := newTestQuizService(newRepo(quiz), generalTrainingID)
		_, err := service.GetByID(ctx, quiz.ID, studentActor())
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("public published quizzes are visible to students", func(t *testing.T) {
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.IsPublic = true

		service := newTestQuizService(newRepo(quiz), generalTrainingID)
		if _, err := service.GetByID(ctx, quiz.ID, studentActor()); err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
	})

	t.Run("training teacher sees its published quizzes", func(t *testing.T) {
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.IsPublic = false

		repo := newRepo(quiz)
		repo.training.GetByIDFn = func(id string) (*models.Training, error) {
			return &models.Training{ID: id, TeacherIDs: []string{teacher.UserID}}, nil
		}

		service := newTestQuizService(repo, generalTrainingID)
		if _, err := service.GetByID(ctx, quiz.ID, teacher); err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
	})

	t.Run("unaffiliated teacher is denied", func(t *testing.T) {
		quiz, _ := fourQuestionQuiz(t, uuid.NewString())
		quiz.IsPublic = false

		repo := newRepo(quiz)
		repo.training.GetByIDFn = func(id string) (*models.Training, error) {
			return &models.Training{ID: id, TeacherIDs: []string{uuid.NewString()}}, nil
		}

		service := newTestQuizService(repo, generalTrainingID)
		teacher := Actor{UserID: uuid.NewString(), Role: models.RoleTeacher}
		_, err := service.GetByID(ctx, quiz.ID, teacher)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("list filters out quizzes the student cannot see", func(t *testing.T) {
		general, _ := fourQuestionQuiz(t, uuid.NewString())
		general.TrainingID = generalTrainingID
		hidden, _ := fourQuestionQuiz(t, uuid.NewString())

		repo := newMockRepository()
		repo.quiz.ListFn = func(filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
			return []*models.Quiz{general, hidden}, 2, nil
		}

		service := newTestQuizService(repo, generalTrainingID)
		resp, err := service.List(ctx, repositories.QuizFilters{}, studentActor())
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Quizzes) != 1 {
			t.Fatalf("expected 1 visible quiz, got %d", len(resp.Quizzes))
		}
		if resp.Quizzes[0].Quiz.ID != general.ID {
			t.Errorf("expected general training quiz %s, got %s", general.ID, resp.Quizzes[0].Quiz.ID)
		}
	})
}

func TestQuizService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("students are scoped to published quizzes", func(t *testing.T) {
		var captured repositories.QuizFilters
		repo := newMockRepository()
		repo.quiz.ListFn = func(filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
			captured = filters
			return nil, 0, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		student := studentActor()
		if _, err := service.List(ctx, repositories.QuizFilters{}, student); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if captured.IsPublished == nil || !*captured.IsPublished {
			t.Error("student listing must be forced to published quizzes")
		}
	})

	t.Run("staff see everything", func(t *testing.T) {
		var captured repositories.QuizFilters
		repo := newMockRepository()
		repo.quiz.ListFn = func(filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
			captured = filters
			return nil, 0, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		admin := Actor{UserID: uuid.NewString(), Role: models.RoleAdmin}
		if _, err := service.List(ctx, repositories.QuizFilters{}, admin); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if captured.IsPublished != nil {
			t.Error("staff listing must not be scoped to published quizzes")
		}
	})

	t.Run("students listing own creations keep drafts", func(t *testing.T) {
		var captured repositories.QuizFilters
		repo := newMockRepository()
		repo.quiz.ListFn = func(filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
			captured = filters
			return nil, 0, nil
		}

		service := newTestQuizService(repo, uuid.NewString())
		student := studentActor()
		filters := repositories.QuizFilters{CreatedBy: &student.UserID}
		if _, err := service.List(ctx, filters, student); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if captured.IsPublished != nil {
			t.Error("own-creations listing must include unpublished revisions")
		}
	})
}
