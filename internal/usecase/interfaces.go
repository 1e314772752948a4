package usecase

// UserNotifier pushes a serialized event to every live connection of a user.
type UserNotifier interface {
	SendToUser(userID string, message []byte) bool
}

// Limiter reports whether userID may perform action right now.
type Limiter interface {
	Allow(userID, action string) bool
}

