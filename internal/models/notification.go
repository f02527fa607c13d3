package models

type NotificationType string

const (
	NotificationSessionCompleted NotificationType = "session_completed"
	NotificationQuizPublished    NotificationType = "quiz_published"
	NotificationQuizDue          NotificationType = "quiz_due"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)
