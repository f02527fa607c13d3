package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
)

type HandlerManager struct {
	sessionHandler      *SessionHandler
	quizHandler         *QuizHandler
	questionHandler     *QuestionHandler
	trainingHandler     *TrainingHandler
	importExportHandler *ImportExportHandler
	authMiddleware      *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		sessionHandler:      NewSessionHandler(serviceManager.Session(), validator, logger),
		quizHandler:         NewQuizHandler(serviceManager.Quiz(), validator, logger),
		questionHandler:     NewQuestionHandler(serviceManager.Question(), validator, logger),
		trainingHandler:     NewTrainingHandler(serviceManager.Training(), logger),
		importExportHandler: NewImportExportHandler(serviceManager.ImportExport(), logger),
		authMiddleware:      authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Session routes use optional authentication so guests can take
		// public quizzes; the service layer enforces per-operation access.
		sessions := v1.Group("/sessions")
		sessions.Use(hm.authMiddleware.OptionalAuthMiddleware())
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
		}

		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			// Viewing a published public quiz works without a token
			quizzes.GET("/:id", hm.authMiddleware.OptionalAuthMiddleware(), hm.quizHandler.GetQuiz)

			authed := quizzes.Group("")
			authed.Use(hm.authMiddleware.AuthMiddleware())
			{
				// Creation is open to every authenticated role; the quiz type
				// policy (students get revision only, teachers never revision)
				// lives in the service.
				authed.POST("", hm.quizHandler.CreateQuiz)
				authed.GET("", hm.quizHandler.ListQuizzes)
				authed.PUT("/:id", hm.quizHandler.UpdateQuiz)
				authed.DELETE("/:id", hm.quizHandler.DeleteQuiz)
				authed.POST("/:id/publish", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleManager, models.RoleAdmin), hm.quizHandler.PublishQuiz)
				authed.POST("/:id/unpublish", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleManager, models.RoleAdmin), hm.quizHandler.UnpublishQuiz)
				authed.GET("/:id/stats", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleManager, models.RoleAdmin), hm.quizHandler.GetQuizStats)
			}
		}

		// Question routes carry answer keys, so students and guests never
		// reach them.
		questions := v1.Group("/questions")
		questions.Use(hm.authMiddleware.AuthMiddleware())
		questions.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleManager, models.RoleAdmin))
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/sample", hm.questionHandler.SampleQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		// Training catalog (read-only in this service)
		trainings := v1.Group("/trainings")
		trainings.Use(hm.authMiddleware.AuthMiddleware())
		{
			trainings.GET("", hm.trainingHandler.ListTrainings)
			trainings.GET("/:id", hm.trainingHandler.GetTraining)
			trainings.GET("/:id/chapters", hm.trainingHandler.GetTrainingChapters)
		}

		// Question bank import/export per chapter
		chapters := v1.Group("/chapters")
		chapters.Use(hm.authMiddleware.AuthMiddleware())
		chapters.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleManager, models.RoleAdmin))
		{
			chapters.POST("/:chapter_id/questions/import", hm.importExportHandler.ImportQuestions)
			chapters.GET("/:chapter_id/questions/export", hm.importExportHandler.ExportQuestions)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}
