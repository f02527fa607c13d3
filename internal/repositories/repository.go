package repositories

import "context"

// Repository aggregates all entity repositories behind one interface.
type Repository interface {
	// Catalog domain
	Training() TrainingRepository
	Chapter() ChapterRepository
	Question() QuestionRepository

	// Quiz domain
	Quiz() QuizRepository
	QuizQuestion() QuizQuestionRepository

	// Session domain
	Session() SessionRepository
	Response() ResponseRepository

	// User directory (read-only for this service)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
